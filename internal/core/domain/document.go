// Package domain contains the core entities shared by all services.
package domain

import "fmt"

// Chunk is a contiguous, overlap-seeded span of a source document
// prepared for embedding. Chunks are produced by the chunking pass
// during ingestion and handed to the vector store; they are not
// retained afterwards.
type Chunk struct {
	// Text is the chunk content. Never empty for an emitted chunk.
	Text string

	// Source identifies the document the chunk came from,
	// typically the file name.
	Source string

	// Index is the ordinal position within the source, assigned in
	// emission order starting at 0. The sequence per source is dense.
	Index int

	// Section is the heading label in effect when the chunk was
	// emitted. Empty when no heading preceded the chunk.
	Section string
}

// Locator returns a human-readable pointer to where the chunk came
// from within its source, combining section and chunk index.
func (c Chunk) Locator() string {
	if c.Section != "" {
		return fmt.Sprintf("%s (chunk %d)", c.Section, c.Index)
	}
	return fmt.Sprintf("chunk %d", c.Index)
}

// ID returns the vector store identifier for the chunk. Re-ingesting
// the same source yields the same IDs, so indexing is an upsert.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_%d", c.Source, c.Index)
}
