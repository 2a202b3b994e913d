package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/anchora/internal/chunker"
	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/normalisers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newIngestService(store *mockVectorStore) *IngestService {
	return NewIngestService(
		normalisers.Defaults(),
		chunker.New(chunker.WithChunkSize(20), chunker.WithOverlap(3)),
		&mockEmbedder{vector: []float32{1, 0}},
		store,
		nil,
	)
}

func TestIngestFile(t *testing.T) {
	store := &mockVectorStore{}
	svc := newIngestService(store)

	path := writeFile(t, t.TempDir(), "doc.txt", "alpha beta gamma delta epsilon")

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	require.Greater(t, n, 0)
	assert.Len(t, store.ids, n)

	// Metadata carries the citation fields.
	require.NotEmpty(t, store.metadata)
	assert.Equal(t, "doc.txt", store.metadata[0]["source"])
	assert.Equal(t, "chunk 0", store.metadata[0]["locator"])
	assert.Equal(t, "doc.txt_0", store.metadata[0]["chunk_id"])
	assert.Equal(t, "doc.txt_0", store.ids[0])
}

func TestIngestFile_SectionMetadata(t *testing.T) {
	store := &mockVectorStore{}
	svc := newIngestService(store)

	path := writeFile(t, t.TempDir(), "doc.md", "# Overview\n\ncontent about the overview section here")

	_, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)

	require.NotEmpty(t, store.metadata)
	assert.Equal(t, "# Overview", store.metadata[0]["section"])
	assert.Contains(t, store.metadata[0]["locator"], "# Overview")
}

func TestIngestFile_Unsupported(t *testing.T) {
	svc := newIngestService(&mockVectorStore{})

	path := writeFile(t, t.TempDir(), "image.png", "binary")

	_, err := svc.IngestFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestFile_EmptyDocument(t *testing.T) {
	store := &mockVectorStore{}
	svc := newIngestService(store)

	path := writeFile(t, t.TempDir(), "empty.txt", "   \n\n  ")

	n, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.ids)
}

func TestIngestFile_NoEmbedder(t *testing.T) {
	svc := NewIngestService(normalisers.Defaults(), chunker.New(), nil, &mockVectorStore{}, nil)

	_, err := svc.IngestFile(context.Background(), "doc.txt")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIngestDir(t *testing.T) {
	store := &mockVectorStore{}
	svc := newIngestService(store)

	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second file content words")
	writeFile(t, dir, "a.txt", "first file content words")
	writeFile(t, dir, "skipme.png", "unsupported, silently ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0700))

	report, err := svc.IngestDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesIndexed)
	assert.Equal(t, len(store.ids), report.ChunksIndexed)
	assert.Empty(t, report.Skipped)

	// Sorted order: a.txt chunks indexed before b.txt chunks.
	require.NotEmpty(t, store.metadata)
	assert.Equal(t, "a.txt", store.metadata[0]["source"])
}

func TestIngestDir_FailedFileIsSkipped(t *testing.T) {
	store := &mockVectorStore{}
	svc := NewIngestService(
		normalisers.Defaults(),
		chunker.New(chunker.WithChunkSize(20), chunker.WithOverlap(3)),
		&mockEmbedder{embedErr: assert.AnError},
		store,
		nil,
	)

	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "content that will fail to embed")

	report, err := svc.IngestDir(context.Background(), dir)
	require.NoError(t, err, "a failing file must not abort the batch")

	assert.Zero(t, report.FilesIndexed)
	assert.ErrorIs(t, report.Skipped[path], assert.AnError)
}

func TestReset(t *testing.T) {
	store := &mockVectorStore{}
	svc := newIngestService(store)

	require.NoError(t, svc.Reset(context.Background()))
	assert.True(t, store.dropped)
}
