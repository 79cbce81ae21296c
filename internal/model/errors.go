package model

import "errors"

// Sentinel errors for the failure taxonomy. Callers classify with
// errors.Is; wrapping preserves the upstream cause.
var (
	// ErrEmbeddingUnavailable means the embedding client is unconfigured
	// or the provider failed. Fatal to the current call, never retried.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrEmbeddingProvider means the provider accepted the request but
	// failed to produce a vector. Fatal to the current call like
	// ErrEmbeddingUnavailable; kept distinct for diagnostics.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrStoreUnavailable means the evidence store could not serve the
	// request. Propagated whole; no partial results.
	ErrStoreUnavailable = errors.New("evidence store unavailable")

	// ErrMalformedInput means the caller supplied an invalid request,
	// e.g. top_k < 1 or an unparseable timestamp.
	ErrMalformedInput = errors.New("malformed input")
)
