// Package postgres implements db.Store on PostgreSQL with the pgvector extension.
// Each listing is one row: the numeric id, the full JSON document and its embedding.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/kailas-cloud/dbgate/internal/db"
	"github.com/kailas-cloud/dbgate/internal/metrics"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const driverName = "postgres"

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	// DSN is a postgres:// connection string.
	DSN string
	// Table holds the documents. Default "listings".
	Table string
	// VectorColumn holds the embedding. Default "text_embeddings".
	VectorColumn string
	// InstallExtension runs CREATE EXTENSION IF NOT EXISTS vector before the
	// pool is opened, so pgvector types can be registered on every connection.
	InstallExtension bool
}

// Store implements db.Store via a pgx connection pool.
type Store struct {
	pool         *pgxpool.Pool
	table        string
	vectorColumn string
}

// NewStore creates a pool to the database at cfg.DSN with pgvector types
// registered on every connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if cfg.Table == "" {
		cfg.Table = "listings"
	}
	if cfg.VectorColumn == "" {
		cfg.VectorColumn = "text_embeddings"
	}
	if !db.IsValidIdentifier(cfg.Table) || !db.IsValidIdentifier(cfg.VectorColumn) {
		return nil, fmt.Errorf("invalid table %q or vector column %q", cfg.Table, cfg.VectorColumn)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if cfg.InstallExtension {
		if err := installExtension(ctx, poolCfg.ConnConfig); err != nil {
			return nil, err
		}
	}

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Store{pool: pool, table: cfg.Table, vectorColumn: cfg.VectorColumn}, nil
}

func installExtension(ctx context.Context, connCfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if _, err := conn.Exec(ctx, ddlExtension); err != nil {
		return &db.Error{Op: db.OpDDL, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func observe(op string, start time.Time, err error) {
	if errors.Is(err, db.ErrKeyNotFound) {
		err = nil
	}
	metrics.ObserveStore(driverName, op, start, err)
}
