package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/domain"
)

func TestFindByName_Found(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.MatchQuery
	ms.findOneFn = func(_ context.Context, q *db.MatchQuery) ([]byte, error) {
		got = q
		return []byte(`{"_id":7,"name":"Private Room in Bushwick","bedrooms":1}`), nil
	}

	l, err := repo.FindByName(context.Background(), "Private Room in Bushwick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil || l.ID != 7 || l.Bedrooms != 1 {
		t.Fatalf("unexpected listing: %+v", l)
	}
	if got.IndexName != "vector_index" || got.Field != "name" || got.Value != "Private Room in Bushwick" {
		t.Errorf("unexpected query: %+v", got)
	}
}

func TestFindByName_NoMatch(t *testing.T) {
	repo, _ := newTestRepo(t)

	l, err := repo.FindByName(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != nil {
		t.Errorf("expected nil listing, got %+v", l)
	}
}

func TestFindByName_RejectsPartialMatch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findOneFn = func(context.Context, *db.MatchQuery) ([]byte, error) {
		return []byte(`{"_id":9,"name":"Cozy, sunny room"}`), nil
	}

	l, err := repo.FindByName(context.Background(), "Cozy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != nil {
		t.Errorf("expected no match for a name fragment, got %+v", l)
	}

	l, err = repo.FindByName(context.Background(), "Cozy, sunny room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil || l.ID != 9 {
		t.Errorf("expected listing 9, got %+v", l)
	}
}

func TestFindByID(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getDocumentFn = func(_ context.Context, id int64) ([]byte, error) {
		if id != 10084023 {
			return nil, db.ErrKeyNotFound
		}
		return []byte(`{"_id":10084023,"name":"Mock"}`), nil
	}

	l, err := repo.FindByID(context.Background(), 10084023)
	if err != nil || l == nil || l.Name != "Mock" {
		t.Fatalf("FindByID = %+v, %v", l, err)
	}
	if l.Reviews == nil || l.TextEmbeddings == nil {
		t.Error("absent collections should decode as empty")
	}

	l, err = repo.FindByID(context.Background(), 1)
	if err != nil || l != nil {
		t.Fatalf("missing id: got %+v, %v", l, err)
	}
}

func TestLookup_StoreErrors(t *testing.T) {
	boom := &db.Error{Op: db.OpSearch, Err: errors.New("connection reset")}

	tests := []struct {
		name string
		call func(*Repo) error
		ms   *mockStore
	}{
		{
			name: "find one failure",
			ms: &mockStore{findOneFn: func(context.Context, *db.MatchQuery) ([]byte, error) {
				return nil, boom
			}},
			call: func(r *Repo) error { _, err := r.FindByName(context.Background(), "x"); return err },
		},
		{
			name: "get failure",
			ms: &mockStore{getDocumentFn: func(context.Context, int64) ([]byte, error) {
				return nil, boom
			}},
			call: func(r *Repo) error { _, err := r.FindByID(context.Background(), 1); return err },
		},
		{
			name: "corrupt document",
			ms: &mockStore{getDocumentFn: func(context.Context, int64) ([]byte, error) {
				return []byte(`{"_id":"not a number"`), nil
			}},
			call: func(r *Repo) error { _, err := r.FindByID(context.Background(), 1); return err },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call(New(tc.ms, testVectorConfig()))
			if !errors.Is(err, domain.ErrStore) {
				t.Fatalf("expected ErrStore, got %v", err)
			}
		})
	}

	// The driver error stays reachable for logs.
	repo := New(tests[0].ms, testVectorConfig())
	_, err := repo.FindByName(context.Background(), "x")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("expected db.Error in chain, got %v", err)
	}
}

func TestSearchKNN_PassesPoolAndPreservesOrder(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.KNNQuery
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{Total: 2, Entries: []db.SearchEntry{
			{Key: "listing:2", Distance: 0.05, Document: []byte(`{"_id":2,"name":"B"}`)},
			{Key: "listing:1", Distance: 0.30, Document: []byte(`{"_id":1,"name":"A"}`)},
		}}, nil
	}

	out, err := repo.SearchKNN(context.Background(), []float32{1, 0, 0, 0}, 2, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].Name != "B" || out[1].Name != "A" {
		t.Fatalf("unexpected results: %+v", out)
	}
	if got.K != 2 || got.EFRuntime != 120 || got.VectorField != "text_embeddings" || got.IndexName != "vector_index" {
		t.Errorf("unexpected query: %+v", got)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	out, err := repo.SearchKNN(context.Background(), []float32{1}, 1, 120)
	if err != nil || out != nil {
		t.Fatalf("SearchKNN = %v, %v; want nil, nil", out, err)
	}
}

func TestSearchKNN_Errors(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return nil, context.DeadlineExceeded
	}
	if _, err := repo.SearchKNN(context.Background(), []float32{1}, 1, 1); !errors.Is(err, domain.ErrStore) {
		t.Errorf("store failure: expected ErrStore, got %v", err)
	}

	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{Key: "k", Document: []byte("nope")}}}, nil
	}
	if _, err := repo.SearchKNN(context.Background(), []float32{1}, 1, 1); !errors.Is(err, domain.ErrStore) {
		t.Errorf("bad document: expected ErrStore, got %v", err)
	}
}
