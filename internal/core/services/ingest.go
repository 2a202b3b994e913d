// Package services contains the core application services. Services
// orchestrate domain logic through the driven ports and are exposed
// to the CLI and MCP adapters through the driving ports.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
	"github.com/custodia-labs/anchora/internal/logger"
	"github.com/custodia-labs/anchora/internal/normalisers"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize bounds how many chunk texts go to the embedding
// service in one call.
const embedBatchSize = 64

// IngestService parses documents, chunks them and indexes the chunks
// in the vector store.
type IngestService struct {
	registry *normalisers.Registry
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	limiter  *rate.Limiter
}

// NewIngestService creates an ingest service. The rate limiter paces
// embedding batches during bulk ingestion; pass nil for no pacing.
func NewIngestService(
	registry *normalisers.Registry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	limiter *rate.Limiter,
) *IngestService {
	return &IngestService{
		registry: registry,
		chunker:  chunker,
		embedder: embedder,
		vectors:  vectors,
		limiter:  limiter,
	}
}

// IngestFile parses, chunks, embeds and indexes one file. Returns the
// number of chunks indexed.
func (s *IngestService) IngestFile(ctx context.Context, path string) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Ingest")
	logger.Debug("File: %s", path)

	text, err := s.registry.Parse(ctx, path)
	if err != nil {
		return 0, err
	}

	source := filepath.Base(path)
	chunks := s.chunker.Split(text, source)
	if len(chunks) == 0 {
		logger.Debug("No chunks produced, nothing to index")
		return 0, nil
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	if err := s.index(ctx, chunks); err != nil {
		return 0, err
	}

	logger.Info("Indexed %s: %d chunks", source, len(chunks))
	return len(chunks), nil
}

// index embeds chunks in batches and upserts them with citation
// metadata.
func (s *IngestService) index(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding batch: got %d vectors for %d chunks", len(vectors), len(batch))
		}

		ids := make([]string, len(batch))
		metadata := make([]map[string]string, len(batch))
		for i, c := range batch {
			ids[i] = c.ID()
			metadata[i] = map[string]string{
				"source":   c.Source,
				"locator":  c.Locator(),
				"chunk_id": c.ID(),
			}
			if c.Section != "" {
				metadata[i]["section"] = c.Section
			}
		}

		if err := s.vectors.Upsert(ctx, ids, vectors, texts, metadata); err != nil {
			return fmt.Errorf("indexing batch: %w", err)
		}
	}
	return nil
}

// IngestDir ingests every supported file in the directory, in sorted
// order. Files that fail are skipped and reported; the batch
// continues. Files with unsupported extensions are ignored silently.
func (s *IngestService) IngestDir(ctx context.Context, dir string) (driving.IngestReport, error) {
	report := driving.IngestReport{Skipped: make(map[string]error)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if s.registry.Supports(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		n, err := s.IngestFile(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			report.Skipped[path] = err
			continue
		}
		report.FilesIndexed++
		report.ChunksIndexed += n
	}

	return report, nil
}

// Reset drops the vector collection for re-indexing.
func (s *IngestService) Reset(ctx context.Context) error {
	if s.vectors == nil {
		return domain.ErrVectorIndexUnavailable
	}
	logger.Info("Dropping vector collection")
	return s.vectors.Drop(ctx)
}
