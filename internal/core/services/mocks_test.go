package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. Each
// embed call returns a fixed vector and records the input.
type mockEmbedder struct {
	vector   []float32
	embedErr error
	texts    []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.texts = append(m.texts, text)
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int   { return len(m.vector) }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error      { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	hits      []driven.VectorHit
	queryErr  error
	upsertErr error
	dropped   bool

	// recorded upserts
	ids      []string
	texts    []string
	metadata []map[string]string

	// recorded queries
	queriedK []int
}

func (m *mockVectorStore) Upsert(_ context.Context, ids []string, _ [][]float32, texts []string, metadata []map[string]string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.ids = append(m.ids, ids...)
	m.texts = append(m.texts, texts...)
	m.metadata = append(m.metadata, metadata...)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.queriedK = append(m.queriedK, k)
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorStore) Drop(_ context.Context) error {
	m.dropped = true
	return nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	return len(m.ids), nil
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response    string
	completeErr error
	prompts     []string
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.completeErr != nil {
		return "", m.completeErr
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

// mockFactStore implements driven.FactStore for testing, with the
// same case-insensitive dedup contract as the real stores.
type mockFactStore struct {
	facts     map[domain.MemoryTarget][]string
	appendErr error
}

func newMockFactStore() *mockFactStore {
	return &mockFactStore{facts: make(map[domain.MemoryTarget][]string)}
}

func (m *mockFactStore) Append(_ context.Context, fact domain.MemoryFact) (bool, error) {
	if m.appendErr != nil {
		return false, m.appendErr
	}
	for _, existing := range m.facts[fact.Target] {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(fact.Summary)) {
			return false, nil
		}
	}
	m.facts[fact.Target] = append(m.facts[fact.Target], strings.TrimSpace(fact.Summary))
	return true, nil
}

func (m *mockFactStore) Summaries(_ context.Context, target domain.MemoryTarget) ([]string, error) {
	return m.facts[target], nil
}

func (m *mockFactStore) Close() error { return nil }
