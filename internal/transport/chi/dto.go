package chi

import "github.com/kailas-cloud/dbgate/internal/domain/listing"

// listingResponse is a stored listing without its embedding.
type listingResponse struct {
	*listing.Listing
	TextEmbeddings []float64 `json:"text_embeddings,omitempty"`
}

func listingToResponse(l *listing.Listing) any {
	if l == nil {
		return nil
	}
	return listingResponse{Listing: l}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
}
