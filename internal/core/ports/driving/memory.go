package driving

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// MemoryService extracts durable facts from conversation turns and
// persists them.
type MemoryService interface {
	// ProcessTurn extracts candidate facts from one exchange, filters
	// by confidence, deduplicates against the stores and appends the
	// survivors. It returns exactly the facts newly written this
	// call, in candidate order. Extraction failures yield an empty
	// result, not an error.
	ProcessTurn(ctx context.Context, userMessage, assistantMessage string) ([]domain.MemoryFact, error)

	// Context loads a target's stored facts as a prompt-ready string.
	Context(ctx context.Context, target domain.MemoryTarget) (string, error)
}
