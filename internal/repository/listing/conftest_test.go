package listing

import (
	"context"
	"testing"

	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/domain"
)

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	findOneFn      func(ctx context.Context, q *db.MatchQuery) ([]byte, error)
	getDocumentFn  func(ctx context.Context, id int64) ([]byte, error)
	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	putDocumentsFn func(ctx context.Context, docs []db.Document) error
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) FindOne(ctx context.Context, q *db.MatchQuery) ([]byte, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, q)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) GetDocument(ctx context.Context, id int64) ([]byte, error) {
	if m.getDocumentFn != nil {
		return m.getDocumentFn(ctx, id)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) PutDocuments(ctx context.Context, docs []db.Document) error {
	if m.putDocumentsFn != nil {
		return m.putDocumentsFn(ctx, docs)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func testVectorConfig() domain.VectorConfig {
	vc := domain.DefaultVectorConfig()
	vc.Dimensions = 4
	return vc
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testVectorConfig()), ms
}
