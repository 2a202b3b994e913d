package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

func hit(text, source, locator string) driven.VectorHit {
	return driven.VectorHit{
		Text:       text,
		Metadata:   map[string]string{"source": source, "locator": locator},
		Similarity: 0.9,
	}
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, &mockVectorStore{}, nil, 0)

	records, err := svc.Retrieve(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, &mockVectorStore{}, nil, 0)

	_, err := svc.Retrieve(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieve_NormalisesHits(t *testing.T) {
	long := make([]byte, domain.SnippetLength+50)
	for i := range long {
		long[i] = 'x'
	}

	store := &mockVectorStore{hits: []driven.VectorHit{
		hit(string(long), "report.pdf", "Overview (chunk 2)"),
		hit("short text", "notes.md", "chunk 0"),
	}}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, store, nil, 0)

	records, err := svc.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "report.pdf", records[0].Source)
	assert.Equal(t, "Overview (chunk 2)", records[0].Locator)
	assert.Len(t, records[0].Snippet, domain.SnippetLength+len("..."))
	assert.Equal(t, "short text", records[1].Snippet)
}

func TestRetrieve_TopKClamped(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, store, nil, 10)

	_, err := svc.Retrieve(context.Background(), "q", 50)
	require.NoError(t, err)

	// Over-cap requests are clamped, non-positive ones get the default.
	_, err = svc.Retrieve(context.Background(), "q", 0)
	require.NoError(t, err)

	assert.Equal(t, []int{10, DefaultTopK}, store.queriedK)
}

func TestAnswer_NoRecords(t *testing.T) {
	llm := &mockLLM{response: "should not be called"}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, &mockVectorStore{}, llm, 0)

	answer, err := svc.Answer(context.Background(), "anything indexed?", 5)
	require.NoError(t, err)

	assert.Equal(t, noRecordsAnswer, answer.Text)
	assert.Empty(t, answer.Citations)
	assert.Empty(t, llm.prompts, "LLM must not be invoked without grounding")
}

func TestAnswer_NilLLM(t *testing.T) {
	store := &mockVectorStore{hits: []driven.VectorHit{hit("the answer text", "doc.txt", "chunk 0")}}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, store, nil, 0)

	answer, err := svc.Answer(context.Background(), "question", 5)
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "No LLM configured")
	assert.Contains(t, answer.Text, "the answer text")
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "doc.txt", answer.Citations[0].Source)
}

func TestAnswer_TransientFailureKeepsCitations(t *testing.T) {
	store := &mockVectorStore{hits: []driven.VectorHit{
		hit("first", "a.txt", "chunk 0"),
		hit("second", "b.txt", "chunk 1"),
	}}
	llm := &mockLLM{completeErr: domain.ErrLLMTransient}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, store, llm, 0)

	answer, err := svc.Answer(context.Background(), "question", 5)
	require.NoError(t, err, "generation failure must not surface as an error")

	assert.Contains(t, answer.Text, "temporarily unavailable")
	assert.Len(t, answer.Citations, 2)
}

func TestAnswer_Success(t *testing.T) {
	store := &mockVectorStore{hits: []driven.VectorHit{hit("grounding", "doc.txt", "Intro (chunk 0)")}}
	llm := &mockLLM{response: "  Grounded answer. [Source: doc.txt, Locator: Intro (chunk 0)]  "}
	svc := NewAnswerService(&mockEmbedder{vector: []float32{1}}, store, llm, 0)

	answer, err := svc.Answer(context.Background(), "question", 5)
	require.NoError(t, err)

	assert.Equal(t, "Grounded answer. [Source: doc.txt, Locator: Intro (chunk 0)]", answer.Text)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "Intro (chunk 0)", answer.Citations[0].Locator)

	// The prompt carries the rank-indexed context block.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "[1] (Source: doc.txt, Locator: Intro (chunk 0))\ngrounding")
	assert.Contains(t, llm.prompts[0], "Question: question")
}

func TestBuildCitations_DedupsFirstSeen(t *testing.T) {
	records := []domain.RetrievedRecord{
		{Source: "a.txt", Locator: "chunk 0", Snippet: "first"},
		{Source: "b.txt", Locator: "chunk 1", Snippet: "other"},
		{Source: "a.txt", Locator: "chunk 0", Snippet: "ignored duplicate"},
	}

	citations := BuildCitations(records)
	require.Len(t, citations, 2)
	assert.Equal(t, "first", citations[0].Snippet)
	assert.Equal(t, "b.txt", citations[1].Source)
}

func TestFormatContext(t *testing.T) {
	records := []domain.RetrievedRecord{
		{Text: "alpha", Source: "a.txt", Locator: "chunk 0"},
		{Text: "beta", Source: "b.txt", Locator: "chunk 3"},
	}

	got := FormatContext(records)
	want := "[1] (Source: a.txt, Locator: chunk 0)\nalpha\n\n[2] (Source: b.txt, Locator: chunk 3)\nbeta"
	assert.Equal(t, want, got)
}
