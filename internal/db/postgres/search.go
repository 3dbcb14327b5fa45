package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/dbgate/internal/db"
)

// FindOne returns the lowest-id document whose top-level field equals the value.
// IndexName is not used; the table is fixed by the store config.
func (s *Store) FindOne(ctx context.Context, q *db.MatchQuery) (_ []byte, err error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("find_one", start, err) }(time.Now())

	sql := fmt.Sprintf(
		`SELECT document FROM %s WHERE document ->> $1 = $2 ORDER BY id LIMIT 1`,
		pgx.Identifier{s.table}.Sanitize())

	var doc []byte
	if err := s.pool.QueryRow(ctx, sql, q.Field, q.Value).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return doc, nil
}

// GetDocument returns the document with the given id.
func (s *Store) GetDocument(ctx context.Context, id int64) (_ []byte, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())

	sql := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, pgx.Identifier{s.table}.Sanitize())

	var doc []byte
	if err := s.pool.QueryRow(ctx, sql, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return doc, nil
}

// PutDocuments upserts documents and their embeddings in one batch.
func (s *Store) PutDocuments(ctx context.Context, docs []db.Document) (err error) {
	if len(docs) == 0 {
		return nil
	}
	defer func(start time.Time) { observe("put", start, err) }(time.Now())

	sql := fmt.Sprintf(`
INSERT INTO %[1]s (id, document, %[2]s) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, %[2]s = EXCLUDED.%[2]s`,
		pgx.Identifier{s.table}.Sanitize(), pgx.Identifier{s.vectorColumn}.Sanitize())

	batch := &pgx.Batch{}
	for i := range docs {
		var vec any
		if len(docs[i].Vector) > 0 {
			vec = pgvector.NewVector(docs[i].Vector)
		}
		batch.Queue(sql, docs[i].ID, docs[i].Data, vec)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for i := range docs {
		if _, err := br.Exec(); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("document %d: %w", docs[i].ID, err)}
		}
	}
	return nil
}

// SearchKNN orders documents by cosine distance to the query vector. EFRuntime,
// when set, becomes hnsw.ef_search for the enclosing transaction only.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (_ *db.SearchResult, err error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.VectorField != s.vectorColumn {
		return nil, fmt.Errorf("vector field %q does not match column %q", q.VectorField, s.vectorColumn)
	}
	defer func(start time.Time) { observe("knn", start, err) }(time.Now())

	column := pgx.Identifier{s.vectorColumn}.Sanitize()
	sql := fmt.Sprintf(`
SELECT id, document, %[2]s <=> $1 AS distance
FROM   %[1]s
WHERE  %[2]s IS NOT NULL
ORDER  BY %[2]s <=> $1
LIMIT  $2`, pgx.Identifier{s.table}.Sanitize(), column)

	var entries []db.SearchEntry
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if q.EFRuntime > 0 {
			if _, err := tx.Exec(ctx, `SELECT set_config('hnsw.ef_search', $1, true)`,
				strconv.Itoa(q.EFRuntime)); err != nil {
				return fmt.Errorf("set ef_search: %w", err)
			}
		}

		rows, err := tx.Query(ctx, sql, pgvector.NewVector(q.Vector), q.K)
		if err != nil {
			return err
		}
		entries, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.SearchEntry, error) {
			var (
				id int64
				e  db.SearchEntry
			)
			if err := row.Scan(&id, &e.Document, &e.Distance); err != nil {
				return db.SearchEntry{}, err
			}
			e.Key = strconv.FormatInt(id, 10)
			return e, nil
		})
		return err
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}
