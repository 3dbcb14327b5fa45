package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage accumulates the provider tokens spent while serving one request.
// The HTTP handler installs it; the search service records into it.
type EmbeddingUsage struct {
	Calls        int
	PromptTokens int
	TotalTokens  int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext returns the collector installed in ctx, or nil.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Record adds the usage of one embedding call. Safe on a nil receiver.
func (u *EmbeddingUsage) Record(res EmbeddingResult) {
	if u == nil {
		return
	}
	u.Calls++
	u.PromptTokens += res.PromptTokens
	u.TotalTokens += res.TotalTokens
}
