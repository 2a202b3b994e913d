package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document type no normaliser
	// handles. Ingestion of that document aborts; the batch continues.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates no LLM is configured (missing
	// credentials or endpoint). Never fatal: every consumer defines a
	// degraded-but-successful fallback.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrLLMTransient indicates the LLM call failed mid-request
	// (quota, rate limit, network, timeout). Callers fall back while
	// keeping any grounding already computed.
	ErrLLMTransient = errors.New("LLM transient failure")

	// ErrMalformedResponse indicates the LLM returned output that
	// could not be parsed into the expected shape.
	ErrMalformedResponse = errors.New("malformed LLM response")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval and indexing are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not
	// configured or has no collection yet.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
