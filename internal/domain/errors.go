package domain

import "errors"

// Error kinds surfaced at the HTTP boundary. Lower layers wrap them with %w.
var (
	// ErrUnknownService signals a proxy request for a service that is not registered.
	ErrUnknownService = errors.New("unknown service")
	// ErrEmptyInput signals embedding input that is blank after trimming.
	ErrEmptyInput = errors.New("empty input")
	// ErrUpstreamUnavailable signals a proxied call that failed at the transport level or timed out.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamBadResponse signals a proxied call whose response body could not be parsed.
	ErrUpstreamBadResponse = errors.New("upstream bad response")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrStore signals a document store failure.
	ErrStore = errors.New("store error")
	// ErrNotFound signals a valid query with no matching record.
	ErrNotFound = errors.New("not found")
)
