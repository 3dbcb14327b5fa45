package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/dbgate/internal/domain"
)

// Validating rejects blank input before any provider call and guarantees that
// every provider failure surfaces as domain.ErrEmbeddingUnavailable.
type Validating struct {
	inner domain.Embedder
}

// NewValidating wraps inner with input validation.
func NewValidating(inner domain.Embedder) *Validating {
	return &Validating{inner: inner}
}

// Embed trims text and embeds it. Blank text fails with domain.ErrEmptyInput.
func (v *Validating) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.EmbeddingResult{}, domain.ErrEmptyInput
	}

	result, err := v.inner.Embed(ctx, trimmed)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return domain.EmbeddingResult{}, err
		}
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(result.Embedding) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("provider returned no vector: %w", domain.ErrEmbeddingUnavailable)
	}
	return result, nil
}
