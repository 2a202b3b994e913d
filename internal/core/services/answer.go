package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
	"github.com/custodia-labs/anchora/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultMaxTopK caps how many records a single retrieval may return
// when no configured cap is supplied.
const DefaultMaxTopK = 10

// DefaultTopK is used when the caller passes a non-positive topK.
const DefaultTopK = 5

// citationPrompt instructs the model to ground every stated fact in
// the retrieved context using inline citation markup.
const citationPrompt = `You are a helpful assistant that answers questions based ONLY on the provided context.
If the answer cannot be found in the context, say "I couldn't find relevant information in the indexed documents."
Do NOT make up information or cite sources that don't exist.

Context (retrieved passages):
%s

For each fact you state, cite the source using this exact format: [Source: filename, Locator: locator]
Example: [Source: report.pdf, Locator: Overview (chunk 2)]

Question: %s

Answer (with inline citations):`

// noRecordsAnswer is returned when retrieval finds nothing to ground
// an answer on. The LLM is not invoked in that case.
const noRecordsAnswer = "I couldn't find relevant information in the indexed documents. " +
	"Please index documents first or try a different question."

// AnswerService retrieves grounding for a question and assembles a
// cited answer.
type AnswerService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	llm      driven.LLMService // optional, may be nil
	maxTopK  int
}

// NewAnswerService creates an answer service. The llm parameter is
// optional (can be nil); without it answers degrade to the top
// record's snippet. maxTopK <= 0 selects DefaultMaxTopK.
func NewAnswerService(
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	llm driven.LLMService,
	maxTopK int,
) *AnswerService {
	if maxTopK <= 0 {
		maxTopK = DefaultMaxTopK
	}
	return &AnswerService{
		embedder: embedder,
		vectors:  vectors,
		llm:      llm,
		maxTopK:  maxTopK,
	}
}

// Retrieve returns the top-k records for a query, most relevant
// first. topK is clamped to [1, maxTopK]; non-positive values select
// the default. An empty index yields an empty slice and nil error.
func (s *AnswerService) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievedRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, topK: %d", query, topK)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.vectors.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Hits: %d", len(hits))

	records := make([]domain.RetrievedRecord, 0, len(hits))
	for _, hit := range hits {
		records = append(records, domain.RetrievedRecord{
			Text:    hit.Text,
			Source:  hit.Metadata["source"],
			Locator: hit.Metadata["locator"],
			Snippet: domain.Snippet(hit.Text),
		})
	}
	return records, nil
}

// FormatContext renders retrieved records as rank-ordered, indexed
// context blocks for the citation prompt.
func FormatContext(records []domain.RetrievedRecord) string {
	parts := make([]string, 0, len(records))
	for i, r := range records {
		parts = append(parts, fmt.Sprintf("[%d] (Source: %s, Locator: %s)\n%s", i+1, r.Source, r.Locator, r.Text))
	}
	return strings.Join(parts, "\n\n")
}

// BuildCitations deduplicates records into citations by (source,
// locator), preserving first-seen order.
func BuildCitations(records []domain.RetrievedRecord) []domain.Citation {
	citations := make([]domain.Citation, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		c := domain.Citation{Source: r.Source, Locator: r.Locator, Snippet: r.Snippet}
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		citations = append(citations, c)
	}
	return citations
}

// Answer retrieves grounding, invokes the LLM and returns the answer
// with deduplicated citations. Generation failures degrade the answer
// text but never discard the citations already computed.
func (s *AnswerService) Answer(ctx context.Context, question string, topK int) (domain.Answer, error) {
	records, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		return domain.Answer{}, err
	}

	if len(records) == 0 {
		return domain.Answer{Text: noRecordsAnswer, Citations: []domain.Citation{}}, nil
	}

	citations := BuildCitations(records)

	if s.llm == nil {
		logger.Debug("No LLM configured, returning top snippet")
		return domain.Answer{
			Text:      "No LLM configured. Top result: " + records[0].Snippet,
			Citations: citations,
		}, nil
	}

	prompt := fmt.Sprintf(citationPrompt, FormatContext(records), question)

	text, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{Temperature: 0})
	switch {
	case err == nil:
		return domain.Answer{Text: strings.TrimSpace(text), Citations: citations}, nil
	case errors.Is(err, domain.ErrLLMUnavailable):
		logger.Warn("LLM unavailable: %v", err)
		return domain.Answer{
			Text:      "No LLM configured. Top result: " + records[0].Snippet,
			Citations: citations,
		}, nil
	case errors.Is(err, domain.ErrLLMTransient):
		logger.Warn("LLM transient failure: %v", err)
		return domain.Answer{
			Text:      "Relevant passages retrieved, but the LLM is temporarily unavailable. Top result: " + records[0].Snippet,
			Citations: citations,
		}, nil
	default:
		logger.Warn("LLM error: %v", err)
		return domain.Answer{
			Text:      fmt.Sprintf("LLM error: %v", err),
			Citations: citations,
		}, nil
	}
}
