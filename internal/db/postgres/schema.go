package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/dbgate/internal/db"
)

const ddlExtension = `CREATE EXTENSION IF NOT EXISTS vector`

// CreateIndex creates the document table and the indexes the definition
// describes. Statements are idempotent; an existing index is left untouched.
// Only cosine distance is supported for the vector field.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) (err error) {
	stmts, err := s.buildDDL(def)
	if err != nil {
		return err
	}
	defer func(start time.Time) { observe("create_index", start, err) }(time.Now())

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", firstLine(stmt), err)
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpDDL, Err: err}
	}
	return nil
}

// IndexExists reports whether an index with the given name exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = $1 AND indexname = $2)`,
		s.table, name,
	).Scan(&exists)
	if err != nil {
		return false, &db.Error{Op: db.OpSelect, Err: err}
	}
	return exists, nil
}

func (s *Store) buildDDL(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	vf, ok := def.VectorField()
	if !ok {
		return nil, errors.New("index requires a vector field")
	}
	if vf.Name() != s.vectorColumn {
		return nil, fmt.Errorf("vector field %q does not match column %q", vf.Name(), s.vectorColumn)
	}
	if vf.VectorDistance != "" && vf.VectorDistance != db.DistanceCosine {
		return nil, fmt.Errorf("unsupported distance %q", vf.VectorDistance)
	}

	table := pgx.Identifier{s.table}.Sanitize()
	column := pgx.Identifier{s.vectorColumn}.Sanitize()

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id        BIGINT PRIMARY KEY,
    document  JSONB  NOT NULL,
    %s vector(%d)
)`, table, column, vf.VectorDim),
	}

	for i := range def.Fields {
		f := &def.Fields[i]
		idxName := pgx.Identifier{def.Name + "_" + f.Name()}.Sanitize()
		switch f.Type {
		case db.IndexFieldTag:
			stmts = append(stmts, fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS %s ON %s ((document ->> '%s'))`, idxName, table, f.Name()))
		case db.IndexFieldNumeric:
			if f.Name() == "id" {
				continue // primary key
			}
			stmts = append(stmts, fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS %s ON %s (((document ->> '%s')::numeric))`, idxName, table, f.Name()))
		case db.IndexFieldVector:
			stmts = append(stmts, fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (%s vector_cosine_ops)%s`,
				pgx.Identifier{def.Name}.Sanitize(), table, column, hnswOptions(f)))
		}
	}
	return stmts, nil
}

func hnswOptions(f *db.IndexField) string {
	var opts []string
	if f.VectorM > 0 {
		opts = append(opts, fmt.Sprintf("m = %d", f.VectorM))
	}
	if f.VectorEFConstruct > 0 {
		opts = append(opts, fmt.Sprintf("ef_construction = %d", f.VectorEFConstruct))
	}
	if len(opts) == 0 {
		return ""
	}
	return " WITH (" + strings.Join(opts, ", ") + ")"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
