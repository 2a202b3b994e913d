package driving

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// AnswerService retrieves grounding for a question and assembles a
// cited answer. Collaborator failures degrade the answer text; they
// never surface as errors to the caller.
type AnswerService interface {
	// Retrieve returns the top-k records for a query, most relevant
	// first. An empty index or no hits yields an empty slice.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedRecord, error)

	// Answer retrieves grounding, invokes the LLM and returns the
	// answer with deduplicated citations.
	Answer(ctx context.Context, question string, topK int) (domain.Answer, error)
}
