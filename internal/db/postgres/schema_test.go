package postgres

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/dbgate/internal/db"
)

func listingIndex(t *testing.T, column string, distance db.DistanceMetric) *db.IndexDefinition {
	t.Helper()
	idx, err := db.NewIndex("vector_index").
		OnJSON().
		Tag("$.name").As("name").
		Numeric("$._id").As("id").
		Numeric("$.price").As("price").
		VectorHNSW("$.text_embeddings", 4, distance, 16, 64).As(column).
		Build()
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx
}

func TestBuildDDL_Listing(t *testing.T) {
	s := &Store{table: "listings", vectorColumn: "text_embeddings"}
	stmts, err := s.buildDDL(listingIndex(t, "text_embeddings", db.DistanceCosine))
	if err != nil {
		t.Fatalf("buildDDL: %v", err)
	}
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements (table, name, price, hnsw), got %d:\n%s",
			len(stmts), strings.Join(stmts, "\n"))
	}

	checks := []struct {
		stmt int
		want string
	}{
		{0, `CREATE TABLE IF NOT EXISTS "listings"`},
		{0, `"text_embeddings" vector(4)`},
		{1, `"vector_index_name" ON "listings" ((document ->> 'name'))`},
		{2, `(((document ->> 'price')::numeric))`},
		{3, `USING hnsw ("text_embeddings" vector_cosine_ops) WITH (m = 16, ef_construction = 64)`},
	}
	for _, c := range checks {
		if !strings.Contains(stmts[c.stmt], c.want) {
			t.Errorf("statement %d missing %q:\n%s", c.stmt, c.want, stmts[c.stmt])
		}
	}
}

func TestBuildDDL_Rejects(t *testing.T) {
	s := &Store{table: "listings", vectorColumn: "text_embeddings"}

	tests := []struct {
		name string
		def  *db.IndexDefinition
		want string
	}{
		{"column mismatch", listingIndex(t, "embedding", db.DistanceCosine), "does not match column"},
		{"l2 distance", listingIndex(t, "text_embeddings", db.DistanceL2), "unsupported distance"},
		{"no vector", &db.IndexDefinition{Name: "idx", Fields: []db.IndexField{{Path: "name"}}}, "requires a vector field"},
		{"invalid", &db.IndexDefinition{Name: "idx"}, "at least one field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.buildDDL(tc.def)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestHNSWOptions(t *testing.T) {
	if got := hnswOptions(&db.IndexField{}); got != "" {
		t.Errorf("empty options = %q", got)
	}
	if got := hnswOptions(&db.IndexField{VectorM: 8}); got != " WITH (m = 8)" {
		t.Errorf("options = %q", got)
	}
}
