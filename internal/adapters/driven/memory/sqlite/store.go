// Package sqlite provides a FactStore backed by SQLite. Unlike the
// file store, summary uniqueness is enforced by a unique index in the
// database itself, so the append path needs no pre-read dedup set and
// is safe for concurrent callers without an external lock.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/anchora/internal/adapters/driven/memory/sqlite/migrations"
	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FactStore = (*Store)(nil)

// Store persists memory facts in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a SQLite fact store in the given data directory.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memory.db")

	// WAL mode for concurrent readers alongside the single writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate executes all embedded migration files in name order.
func (s *Store) migrate(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(stmt)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}
	return nil
}

// Append inserts a fact; the unique index makes a duplicate summary a
// silent no-op. Returns whether the fact was newly written.
func (s *Store) Append(ctx context.Context, fact domain.MemoryFact) (bool, error) {
	summary := strings.TrimSpace(fact.Summary)
	if summary == "" {
		return false, domain.ErrInvalidInput
	}
	if _, ok := domain.ParseMemoryTarget(string(fact.Target)); !ok {
		return false, fmt.Errorf("%w: target %q", domain.ErrInvalidInput, fact.Target)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO facts (target, summary) VALUES (?, ?)`,
		string(fact.Target), summary,
	)
	if err != nil {
		return false, fmt.Errorf("insert fact: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// Summaries returns the stored summaries for a target in append order.
func (s *Store) Summaries(ctx context.Context, target domain.MemoryTarget) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT summary FROM facts WHERE target = ? ORDER BY id`,
		string(target),
	)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var summaries []string
	for rows.Next() {
		var summary string
		if err := rows.Scan(&summary); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facts: %w", err)
	}
	return summaries, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
