package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// Result is the outcome of a similarity search.
type Result struct {
	// Projection is nil when the store returned no hits.
	Projection *listing.Projection
	// Vector is the query embedding the search ran with.
	Vector []float32
}

// Service embeds free text and returns the nearest stored listing.
type Service struct {
	repo  Repository
	embed Embedder
	k     int
	pool  int
}

// New creates a search service. TopK and CandidatePool from vc are used
// whenever a caller passes a non-positive value.
func New(repo Repository, embed Embedder, vc domain.VectorConfig) *Service {
	def := domain.DefaultVectorConfig()
	k, pool := vc.TopK, vc.CandidatePool
	if k <= 0 {
		k = def.TopK
	}
	if pool <= 0 {
		pool = def.CandidatePool
	}
	return &Service{repo: repo, embed: embed, k: k, pool: pool}
}

// SearchSimilar returns the projection of the nearest listing to text,
// or nil, nil when the store has no candidates.
func (s *Service) SearchSimilar(ctx context.Context, text string, k, pool int) (*listing.Projection, error) {
	res, err := s.Search(ctx, text, k, pool)
	if err != nil {
		return nil, err
	}
	return res.Projection, nil
}

// Search embeds text, runs one ANN query and projects the first hit.
// The store's ranking is kept as is. pool is raised to k when smaller.
func (s *Service) Search(ctx context.Context, text string, k, pool int) (Result, error) {
	if k <= 0 {
		k = s.k
	}
	if pool <= 0 {
		pool = s.pool
	}
	pool = max(pool, k)

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("embed query: %w", err)
	}
	domain.UsageFromContext(ctx).Record(emb)

	hits, err := s.repo.SearchKNN(ctx, emb.Embedding, k, pool)
	if err != nil {
		return Result{}, fmt.Errorf("knn search: %w", err)
	}

	res := Result{Vector: emb.Embedding}
	if len(hits) == 0 || hits[0] == nil {
		return res, nil
	}
	p := hits[0].Project()
	res.Projection = &p
	return res, nil
}
