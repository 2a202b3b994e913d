// Package file provides a FactStore backed by line-oriented markdown
// documents, one per memory target. The files are meant to be read
// and hand-edited by operators: one dash-prefixed summary per line
// after an optional header, no binary framing, no schema version.
package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FactStore = (*Store)(nil)

// lockRetryDelay is how often TryLockContext retries a held lock.
const lockRetryDelay = 25 * time.Millisecond

// File names for the two target stores, relative to the store dir.
const (
	UserFile    = "USER_MEMORY.md"
	CompanyFile = "COMPANY_MEMORY.md"
)

// Store persists memory facts as markdown lines. The read-dedup-append
// sequence is a read-modify-write over shared state, so Append takes
// an exclusive file lock per target: concurrent callers cannot both
// read the same pre-append snapshot.
type Store struct {
	dir   string
	locks map[domain.MemoryTarget]*flock.Flock
}

// New creates a file fact store rooted at dir, creating it if needed.
// Paths are explicit configuration so isolated stores can coexist and
// tests can use ephemeral directories.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}

	return &Store{
		dir: dir,
		locks: map[domain.MemoryTarget]*flock.Flock{
			domain.TargetUser:    flock.New(filepath.Join(dir, UserFile+".lock")),
			domain.TargetCompany: flock.New(filepath.Join(dir, CompanyFile+".lock")),
		},
	}, nil
}

// Path returns the document path for a target.
func (s *Store) Path(target domain.MemoryTarget) string {
	if target == domain.TargetCompany {
		return filepath.Join(s.dir, CompanyFile)
	}
	return filepath.Join(s.dir, UserFile)
}

// Append adds a fact unless its summary already exists in the
// target's store (case-insensitively). Returns whether the fact was
// newly written.
func (s *Store) Append(ctx context.Context, fact domain.MemoryFact) (bool, error) {
	if strings.TrimSpace(fact.Summary) == "" {
		return false, domain.ErrInvalidInput
	}
	lock, ok := s.locks[fact.Target]
	if !ok {
		return false, fmt.Errorf("%w: target %q", domain.ErrInvalidInput, fact.Target)
	}

	// Exclusive lock for the whole read-dedup-append sequence.
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return false, fmt.Errorf("lock %s store: %w", fact.Target, err)
	}
	if !locked {
		return false, fmt.Errorf("lock %s store: not acquired", fact.Target)
	}
	defer lock.Unlock() //nolint:errcheck

	existing, err := s.readSummaries(fact.Target)
	if err != nil {
		return false, err
	}

	key := fact.DedupKey()
	for _, summary := range existing {
		if strings.ToLower(summary) == key {
			return false, nil
		}
	}

	if err := s.appendLine(fact); err != nil {
		return false, err
	}
	return true, nil
}

// Summaries returns the stored summaries for a target in append
// order. A missing document is an empty store, not an error.
func (s *Store) Summaries(_ context.Context, target domain.MemoryTarget) ([]string, error) {
	return s.readSummaries(target)
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// readSummaries parses the target's document, tolerating arbitrary
// leading/trailing whitespace, blank lines and non-fact lines such as
// a header.
func (s *Store) readSummaries(target domain.MemoryTarget) ([]string, error) {
	f, err := os.Open(s.Path(target))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s store: %w", target, err)
	}
	defer f.Close()

	var summaries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "-") {
			continue
		}
		summary := strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if summary == "" {
			continue
		}
		summaries = append(summaries, summary)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s store: %w", target, err)
	}
	return summaries, nil
}

// appendLine durably appends one fact line, writing a header first
// when the document does not exist yet.
func (s *Store) appendLine(fact domain.MemoryFact) error {
	path := s.Path(fact.Target)

	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open %s store: %w", fact.Target, err)
	}
	defer f.Close()

	if fresh {
		if _, err := fmt.Fprintf(f, "# %s memory\n\n", headerName(fact.Target)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if _, err := fmt.Fprintf(f, "- %s\n", strings.TrimSpace(fact.Summary)); err != nil {
		return fmt.Errorf("append fact: %w", err)
	}
	return f.Sync()
}

func headerName(target domain.MemoryTarget) string {
	if target == domain.TargetCompany {
		return "Company"
	}
	return "User"
}
