package driven

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// FactStore persists memory facts for one or more targets. Facts are
// append-only; the store is human-readable (or at least operator
// inspectable) and tolerates external edits.
//
// Append must be safe against concurrent callers of the same store:
// implementations serialise the read-dedup-append sequence (file
// lock) or enforce summary uniqueness in the store itself (unique
// index).
type FactStore interface {
	// Append durably adds a fact to its target's store. Appending a
	// summary that already exists case-insensitively is a no-op; the
	// returned bool reports whether the fact was newly written.
	Append(ctx context.Context, fact domain.MemoryFact) (bool, error)

	// Summaries returns the stored summaries for a target in append
	// order, whitespace-trimmed, blank lines skipped.
	Summaries(ctx context.Context, target domain.MemoryTarget) ([]string, error)

	// Close releases resources.
	Close() error
}
