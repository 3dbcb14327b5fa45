package db

import (
	"context"
	"time"
)

// Store is the record store facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces
type Store interface {
	Pinger
	DocumentReader
	DocumentWriter
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentReader fetches raw JSON documents.
// Both methods return ErrKeyNotFound when nothing matches.
type DocumentReader interface {
	FindOne(ctx context.Context, q *MatchQuery) ([]byte, error)
	GetDocument(ctx context.Context, id int64) ([]byte, error)
}

// Document is a single record to write: the raw JSON body plus its embedding.
type Document struct {
	ID     int64
	Data   []byte
	Vector []float32
}

// DocumentWriter upserts documents. Used by the seeding tool only.
type DocumentWriter interface {
	PutDocuments(ctx context.Context, docs []Document) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides nearest-neighbour search over a vector index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
