package listing

import (
	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/domain"
)

// buildIndex describes the listing index: exact-match name, numeric id and the
// HNSW/cosine embedding field.
func buildIndex(vc domain.VectorConfig, keyPrefix string, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(vc.IndexName).OnJSON()
	if keyPrefix != "" {
		b.Prefix(keyPrefix)
	}
	return b.
		Tag("$.name").As(nameField).
		Numeric("$._id").As("id").
		VectorHNSW("$."+vc.VectorPath, vc.Dimensions, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).As(vc.VectorPath).
		Build()
}
