// Package lookup fetches single listings by a fixed predicate.
package lookup

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// Service fetches at most one listing per call.
type Service struct {
	repo Repository
}

// New creates a lookup service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// FetchByName returns the listing whose name equals name, or nil, nil.
func (s *Service) FetchByName(ctx context.Context, name string) (*listing.Listing, error) {
	l, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch by name: %w", err)
	}
	return l, nil
}

// FetchByID returns the listing with the given id, or nil, nil.
func (s *Service) FetchByID(ctx context.Context, id int64) (*listing.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch by id: %w", err)
	}
	return l, nil
}
