package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters wrap them with context using fmt.Errorf and %w.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend, or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Query Errors.

	// ErrRetrievalUnavailable indicates both dense and sparse retrieval failed.
	// The request fails without a partial answer.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrModelUnavailable indicates the model service could not be reached
	// or rejected the request before streaming began.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service failed.
	// At query time this only disables the dense source.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDenseUnavailable indicates the dense index could not be queried or written.
	ErrDenseUnavailable = errors.New("dense index unavailable")

	// ErrSparseUnavailable indicates the sparse index could not be queried or written.
	ErrSparseUnavailable = errors.New("sparse index unavailable")

	// Ingestion Errors.

	// ErrIngestionFailed indicates no chunk landed in either store.
	ErrIngestionFailed = errors.New("ingestion failed")
)
