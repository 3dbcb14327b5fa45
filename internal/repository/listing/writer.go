package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/domain"
	domlisting "github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// writer is the consumer interface for seeding and index bootstrap.
type writer interface {
	PutDocuments(ctx context.Context, docs []db.Document) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds build-time parameters of the vector index.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Writer stores listings and bootstraps the listing index.
type Writer struct {
	store     writer
	vc        domain.VectorConfig
	keyPrefix string
	hnsw      HNSWConfig
}

// NewWriter creates a listing writer. keyPrefix scopes the index to listing keys
// on key-value stores.
func NewWriter(s writer, vc domain.VectorConfig, keyPrefix string, hnsw HNSWConfig) *Writer {
	return &Writer{store: s, vc: vc, keyPrefix: keyPrefix, hnsw: hnsw}
}

// EnsureIndex creates the listing index unless it already exists.
func (w *Writer) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := w.store.IndexExists(ctx, w.vc.IndexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", w.vc.IndexName, err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(w.vc, w.keyPrefix, w.hnsw)
	if err != nil {
		return false, err
	}
	if err := w.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", w.vc.IndexName, err)
	}
	return true, nil
}

// Put upserts listings. Listings whose embedding length differs from the
// configured dimensions are rejected before anything is written.
func (w *Writer) Put(ctx context.Context, listings []*domlisting.Listing) error {
	docs := make([]db.Document, 0, len(listings))
	for _, l := range listings {
		if len(l.TextEmbeddings) != w.vc.Dimensions {
			return fmt.Errorf("listing %d: embedding has %d dimensions, want %d",
				l.ID, len(l.TextEmbeddings), w.vc.Dimensions)
		}
		data, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("marshal listing %d: %w", l.ID, err)
		}
		docs = append(docs, db.Document{ID: l.ID, Data: data, Vector: toFloat32(l.TextEmbeddings)})
	}
	if err := w.store.PutDocuments(ctx, docs); err != nil {
		return fmt.Errorf("put %d listings: %w", len(docs), err)
	}
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
