package driven

import "context"

// VectorStore provides nearest-neighbour storage and search over
// embedded chunks. Implementations own the chunks once indexed.
//
// Indexing is not atomic with respect to concurrent queries: a query
// may observe a partial or stale index while a rebuild is in flight.
// That is tolerated, not an error.
type VectorStore interface {
	// Upsert inserts or replaces vectors. ids, vectors, texts and
	// metadata are parallel slices; metadata carries at least
	// "source" and "locator" per entry.
	Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadata []map[string]string) error

	// Query returns the k nearest hits to the query vector, most
	// similar first. An empty or missing index yields an empty slice
	// and nil error.
	Query(ctx context.Context, vector []float32, k int) ([]VectorHit, error)

	// Drop removes the whole collection, for re-indexing.
	Drop(ctx context.Context) error

	// Count reports the number of indexed chunks.
	Count(ctx context.Context) (int, error)
}

// VectorHit is one ranked search result.
type VectorHit struct {
	// Text is the stored chunk text.
	Text string

	// Metadata is the per-chunk metadata recorded at upsert time.
	Metadata map[string]string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
