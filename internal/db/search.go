package db

import "errors"

// MatchQuery selects a single document whose Field exactly equals Value.
type MatchQuery struct {
	IndexName string
	Field     string
	Value     string
}

// Validate checks the query is complete.
func (q *MatchQuery) Validate() error {
	if q.Field == "" {
		return errors.New("match field is required")
	}
	if !IsValidIdentifier(q.Field) {
		return errors.New("match field contains invalid characters")
	}
	return nil
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName   string
	VectorField string
	Vector      []float32
	K           int
	// EFRuntime is the candidate pool the ANN index explores. Zero leaves the
	// index default in place.
	EFRuntime int
}

// Validate checks the query is complete.
func (q *KNNQuery) Validate() error {
	if len(q.Vector) == 0 {
		return errors.New("vector is required")
	}
	if q.K <= 0 {
		return errors.New("k must be positive")
	}
	if q.EFRuntime < 0 {
		return errors.New("ef runtime must not be negative")
	}
	if q.VectorField == "" || !IsValidIdentifier(q.VectorField) {
		return errors.New("vector field is required")
	}
	return nil
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Entries keep the store's ranking order.
type SearchEntry struct {
	Key      string
	Distance float64
	Document []byte
}
