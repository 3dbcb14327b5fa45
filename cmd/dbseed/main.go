// dbseed loads listing documents into the configured store and creates the
// listing index. Input is a stream of JSON listing objects (one per line or
// concatenated).
//
// Usage:
//
//	ENV=local dbseed -file listings.jsonl -batch-size 200 -embed-missing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/config"
	"github.com/kailas-cloud/dbgate/internal/domain"
	logpkg "github.com/kailas-cloud/dbgate/internal/logger"
	"github.com/kailas-cloud/dbgate/internal/metrics"
	"github.com/kailas-cloud/dbgate/internal/storage"
	openaiEmb "github.com/kailas-cloud/dbgate/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/dbgate/internal/usecase/embedding"
)

type flags struct {
	file         string
	batchSize    int
	embedMissing bool
}

func main() {
	f := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, f); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.file, "file", "listings.jsonl", "JSON listings to load")
	flag.IntVar(&f.batchSize, "batch-size", 100, "listings per store write")
	flag.BoolVar(&f.embedMissing, "embed-missing", false, "embed listings that carry no text_embeddings")
	flag.Parse()
	return f
}

func run(ctx context.Context, f flags) error {
	start := time.Now()
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGatewayMetrics()

	// Seeding always needs the schema, whatever the server is configured to do.
	cfg.Store.CreateIndex = true
	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	writer := storage.NewWriter(store, &cfg)
	if err := storage.EnsureIndex(ctx, writer, logger); err != nil {
		return err
	}

	file, err := os.Open(filepath.Clean(f.file))
	if err != nil {
		return fmt.Errorf("open %s: %w", f.file, err)
	}
	defer func() { _ = file.Close() }()

	var embedder domain.Embedder
	if f.embedMissing {
		embedder = embeddinguc.NewValidating(embeddinguc.NewInstrumentedEmbedder(
			openaiEmb.NewEmbedder(&openaiEmb.Config{
				APIKey:     cfg.Embedding.APIKey,
				BaseURL:    cfg.Embedding.BaseURL,
				Model:      cfg.Embedding.Model,
				Dimensions: cfg.Embedding.Dimensions,
				Timeout:    time.Duration(cfg.Embedding.TimeoutMs) * time.Millisecond,
				Provider:   cfg.Embedding.Provider,
				Logger:     logger,
			}),
			cfg.Embedding.Provider, cfg.Embedding.Model, logger,
		))
	}

	l := &loader{
		writer:    writer,
		embedder:  embedder,
		batchSize: f.batchSize,
		logger:    logger,
	}
	n, err := l.Load(ctx, file)
	if err != nil {
		return err
	}

	logger.Info("Seed complete",
		zap.Int("listings", n),
		zap.String("driver", cfg.Store.Driver),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
