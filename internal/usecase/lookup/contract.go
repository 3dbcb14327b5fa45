package lookup

import (
	"context"

	"github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// Repository reads single listings from the store.
// Both methods return nil, nil when nothing matches.
type Repository interface {
	FindByName(ctx context.Context, name string) (*listing.Listing, error)
	FindByID(ctx context.Context, id int64) (*listing.Listing, error)
}
