// Package storage opens the configured document store and prepares its index.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/config"
	"github.com/kailas-cloud/dbgate/internal/db"
	dbPostgres "github.com/kailas-cloud/dbgate/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/dbgate/internal/db/redis"
	listingrepo "github.com/kailas-cloud/dbgate/internal/repository/listing"
)

// Open connects to the store selected by cfg.Driver and waits until it
// answers pings.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			URL:       cfg.URL,
			KeyPrefix: cfg.KeyPrefix,
		})
	case config.DriverPostgres:
		store, err = dbPostgres.NewStore(ctx, dbPostgres.Config{
			DSN:              cfg.URL,
			Table:            cfg.Table,
			VectorColumn:     cfg.VectorField,
			InstallExtension: cfg.CreateIndex,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s store not ready: %w", cfg.Driver, err)
	}
	log.Info("Connected to store", zap.String("driver", cfg.Driver))
	return store, nil
}

// NewWriter builds the listing writer for cfg's index settings.
func NewWriter(store db.Store, cfg *config.Config) *listingrepo.Writer {
	return listingrepo.NewWriter(store, cfg.VectorConfig(), cfg.Store.KeyPrefix, listingrepo.HNSWConfig{
		M:           cfg.Store.HNSWM,
		EFConstruct: cfg.Store.HNSWEFConstruct,
	})
}

// EnsureIndex creates the listing index when it is missing.
func EnsureIndex(ctx context.Context, w *listingrepo.Writer, log *zap.Logger) error {
	created, err := w.EnsureIndex(ctx)
	if err != nil {
		return fmt.Errorf("ensure listing index: %w", err)
	}
	if created {
		log.Info("Created listing index")
	}
	return nil
}
