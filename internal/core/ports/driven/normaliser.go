package driven

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// Normaliser converts one document format to plain text ready for
// chunking. Unsupported formats are rejected before text reaches the
// chunker.
type Normaliser interface {
	// SupportedExtensions returns lower-case file extensions
	// (including the dot) this normaliser handles.
	SupportedExtensions() []string

	// Normalise extracts plain text from the raw file content.
	Normalise(ctx context.Context, path string, content []byte) (string, error)
}

// Chunker splits normalised text into overlapping, section-tagged
// chunks. It is pure: the same text always yields the same chunks.
type Chunker interface {
	// Split chunks text for the given source. Empty input yields no
	// chunks. Chunk indexes per source are dense, starting at 0.
	Split(text, source string) []domain.Chunk
}
