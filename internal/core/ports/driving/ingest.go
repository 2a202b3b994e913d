package driving

import "context"

// IngestService turns documents into indexed, citation-bearing
// chunks.
type IngestService interface {
	// IngestFile parses, chunks, embeds and indexes one file.
	// Returns the number of chunks indexed. Unsupported file types
	// fail with domain.ErrUnsupportedType.
	IngestFile(ctx context.Context, path string) (int, error)

	// IngestDir ingests every supported file in the directory, in
	// sorted order. A file that fails to ingest is skipped and the
	// rest of the batch continues; per-file errors are returned in
	// the report.
	IngestDir(ctx context.Context, dir string) (IngestReport, error)

	// Reset drops the vector collection for re-indexing.
	Reset(ctx context.Context) error
}

// IngestReport summarises a directory ingestion batch.
type IngestReport struct {
	// FilesIndexed counts files that produced at least zero chunks
	// without error.
	FilesIndexed int

	// ChunksIndexed counts chunks across all indexed files.
	ChunksIndexed int

	// Skipped maps a file path to the reason it was skipped.
	Skipped map[string]error
}
