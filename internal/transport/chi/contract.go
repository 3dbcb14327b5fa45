package chi

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/dbgate/internal/domain/listing"
	"github.com/kailas-cloud/dbgate/internal/proxy"
	healthuc "github.com/kailas-cloud/dbgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dbgate/internal/usecase/search"
)

// Lookup fetches single listings.
type Lookup interface {
	FetchByName(ctx context.Context, name string) (*listing.Listing, error)
	FetchByID(ctx context.Context, id int64) (*listing.Listing, error)
}

// Searcher runs embed-then-search.
type Searcher interface {
	Search(ctx context.Context, text string, k, pool int) (searchuc.Result, error)
}

// Forwarder relays requests to upstream services.
type Forwarder interface {
	Forward(ctx context.Context, req *proxy.Request) (json.RawMessage, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
