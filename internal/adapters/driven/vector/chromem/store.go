// Package chromem provides a VectorStore adapter backed by
// chromem-go, a pure Go embedded vector database with disk
// persistence.
package chromem

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultCollection is the collection name used for document chunks.
const DefaultCollection = "rag_chunks"

// Store wraps a persistent chromem-go database. Embeddings are always
// supplied by the caller; chromem never computes its own.
type Store struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection string
}

// New opens (or creates) a persistent store at the given path.
func New(path string) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}

	return &Store{
		db:         db,
		collection: DefaultCollection,
	}, nil
}

// NewInMemory creates a non-persistent store, for tests.
func NewInMemory() *Store {
	return &Store{
		db:         chromem.NewDB(),
		collection: DefaultCollection,
	}
}

// getOrCreate returns the chunk collection, creating it on first use
// and after a Drop. The nil embedding func is never invoked because
// every document carries a precomputed embedding.
func (s *Store) getOrCreate() (*chromem.Collection, error) {
	col, err := s.db.GetOrCreateCollection(s.collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// Upsert inserts or replaces embedded chunks. Re-ingesting a source
// replaces its previous chunks because chunk IDs are deterministic.
func (s *Store) Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadata []map[string]string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(vectors) != len(ids) || len(texts) != len(ids) || len(metadata) != len(ids) {
		return fmt.Errorf("upsert: mismatched slice lengths (ids=%d vectors=%d texts=%d metadata=%d)",
			len(ids), len(vectors), len(texts), len(metadata))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.getOrCreate()
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(ids))
	for i := range ids {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   texts[i],
			Embedding: vectors[i],
			Metadata:  metadata[i],
		}
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Query returns the k nearest chunks to the query vector. An empty
// collection yields an empty result, not an error.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.db.GetCollection(s.collection, nil)
	if col == nil {
		// No index yet: a valid, empty result.
		return nil, nil
	}

	// chromem rejects nResults above the collection size.
	if count := col.Count(); count < k {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]driven.VectorHit, len(results))
	for i, res := range results {
		hits[i] = driven.VectorHit{
			Text:       res.Content,
			Metadata:   res.Metadata,
			Similarity: float64(res.Similarity),
		}
	}
	return hits, nil
}

// Drop deletes the whole collection for re-indexing.
func (s *Store) Drop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Count reports the number of indexed chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.db.GetCollection(s.collection, nil)
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}
