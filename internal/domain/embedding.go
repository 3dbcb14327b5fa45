package domain

import "context"

// Embedder turns query text into a vector. The gateway's chain is
// OpenAI -> Instrumented -> Validating, and every link satisfies this contract.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker reports whether the embedding provider can serve /embed.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is one provider response. Token counts feed the
// per-request EmbeddingUsage and the X-Embedding-Tokens header.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
