package search

import (
	"context"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// Repository runs the store's native nearest-neighbour query.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, k, pool int) ([]*listing.Listing, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
