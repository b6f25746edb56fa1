package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a query request with no query text.
	// Surfaced as a client error before any external call is made.
	ErrEmptyQuery = errors.New("query is required")

	// ErrNoContent indicates content extraction yielded no usable text.
	// Indexing skips the paper; it is never fatal to a batch.
	ErrNoContent = errors.New("no content extracted")

	// ErrGeneratorUnavailable indicates the generative model call failed.
	// Generator failures are surfaced, not retried.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrVectorStoreUnavailable indicates the vector store call failed.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrCatalogUnavailable indicates the literature catalog could not
	// be reached after retries were exhausted.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
