package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dbgate/internal/db"
)

// scoreField is the alias the KNN clause assigns to the vector distance.
const scoreField = "__vector_score"

// FindOne returns the first document whose TAG field equals the query value.
func (s *Store) FindOne(ctx context.Context, q *db.MatchQuery) (_ []byte, err error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("find_one", start, err) }(time.Now())

	args := []string{
		q.IndexName, buildTagFilter(q.Field, q.Value),
		"RETURN", "1", "$",
		"LIMIT", "0", "1",
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	res, err := parseSearchResult(raw)
	if err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 || len(res.Entries[0].Document) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return res.Entries[0].Document, nil
}

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
// EFRuntime, when set, is passed as the HNSW EF_RUNTIME candidate pool.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (_ *db.SearchResult, err error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	defer func(start time.Time) { observe("knn", start, err) }(time.Now())

	args := []string{
		q.IndexName, buildKNNQuery(q),
		"SORTBY", scoreField,
		"RETURN", "2", scoreField, "$",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchResult(raw)
}

func buildKNNQuery(q *db.KNNQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*=>[KNN %d @%s $BLOB", q.K, q.VectorField)
	if q.EFRuntime > 0 {
		fmt.Fprintf(&b, " EF_RUNTIME %d", q.EFRuntime)
	}
	fmt.Fprintf(&b, " AS %s]", scoreField)
	return b.String()
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(fields)

		entry := db.SearchEntry{Key: key}
		if doc, ok := m["$"]; ok {
			entry.Document = []byte(doc)
		}
		if scoreStr, ok := m[scoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Distance = d
			}
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query helpers ---

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
