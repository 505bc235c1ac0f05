package knowledge

import "errors"

// Sentinel errors for the knowledge layer. Callers distinguish provider
// faults (retriable, degradable) from caller mistakes with errors.Is.
var (
	// ErrEmbeddingProvider indicates the embedding provider call failed.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrStoreUnavailable indicates the vector store could not serve
	// the request.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrSchemaMismatch indicates an embedding's dimension does not
	// match the configured table schema.
	ErrSchemaMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidInput indicates a caller-supplied value is unusable,
	// such as an empty query.
	ErrInvalidInput = errors.New("invalid input")
)
