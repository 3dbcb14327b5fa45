package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dbgate/internal/db"
)

// GetDocument retrieves the JSON document stored under keyPrefix+id.
func (s *Store) GetDocument(ctx context.Context, id int64) (_ []byte, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())

	cmd := s.b().Arbitrary("JSON.GET").Keys(s.key(id)).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// PutDocuments stores documents with pipelined JSON.SET. The vector must already be
// part of each document body; Document.Vector is not consulted.
func (s *Store) PutDocuments(ctx context.Context, docs []db.Document) (err error) {
	if len(docs) == 0 {
		return nil
	}
	defer func(start time.Time) { observe("put", start, err) }(time.Now())

	cmds := make(rueidis.Commands, 0, len(docs))
	for i := range docs {
		cmds = append(cmds, s.b().Arbitrary("JSON.SET").
			Keys(s.key(docs[i].ID)).
			Args("$", string(docs[i].Data)).
			Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpJSONSet, Err: fmt.Errorf("document %d: %w", docs[i].ID, err)}
		}
	}
	return nil
}

func (s *Store) key(id int64) string {
	return s.keyPrefix + strconv.FormatInt(id, 10)
}
