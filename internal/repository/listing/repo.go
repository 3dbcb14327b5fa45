// Package listing reads listing documents from a db.Store.
package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/domain"
	domlisting "github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// nameField is the index attribute the name lookup matches on.
const nameField = "name"

// store is the consumer interface for listing reads (ISP).
type store interface {
	FindOne(ctx context.Context, q *db.MatchQuery) ([]byte, error)
	GetDocument(ctx context.Context, id int64) ([]byte, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the lookup and search repositories over a document store.
type Repo struct {
	store       store
	indexName   string
	vectorField string
}

// New creates a listing repository.
func New(s store, vc domain.VectorConfig) *Repo {
	return &Repo{store: s, indexName: vc.IndexName, vectorField: vc.VectorPath}
}

// FindByName returns the first listing whose name equals name exactly.
// It returns nil, nil when nothing matches.
func (r *Repo) FindByName(ctx context.Context, name string) (*domlisting.Listing, error) {
	data, err := r.store.FindOne(ctx, &db.MatchQuery{
		IndexName: r.indexName,
		Field:     nameField,
		Value:     name,
	})
	l, err := decodeOne(data, err, fmt.Sprintf("find listing name=%q", name))
	if l == nil || err != nil {
		return nil, err
	}
	// Tag indexes may tokenize names; only an exact match counts.
	if l.Name != name {
		return nil, nil
	}
	return l, nil
}

// FindByID returns the listing with the given id, or nil, nil if absent.
func (r *Repo) FindByID(ctx context.Context, id int64) (*domlisting.Listing, error) {
	data, err := r.store.GetDocument(ctx, id)
	return decodeOne(data, err, fmt.Sprintf("get listing id=%d", id))
}

// SearchKNN returns up to k listings nearest to vector, in store order.
// pool is the number of ANN candidates the store explores.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k, pool int) ([]*domlisting.Listing, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:   r.indexName,
		VectorField: r.vectorField,
		Vector:      vector,
		K:           k,
		EFRuntime:   pool,
	})
	if err != nil {
		return nil, fmt.Errorf("search listings k=%d: %w: %w", k, domain.ErrStore, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	out := make([]*domlisting.Listing, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		l, err := domlisting.Decode(e.Document)
		if err != nil {
			return nil, fmt.Errorf("decode hit %s: %w: %w", e.Key, domain.ErrStore, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func decodeOne(data []byte, err error, op string) (*domlisting.Listing, error) {
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
	}
	l, err := domlisting.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
	}
	return l, nil
}
