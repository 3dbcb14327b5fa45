package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/config"
	logpkg "github.com/kailas-cloud/dbgate/internal/logger"
	"github.com/kailas-cloud/dbgate/internal/metrics"
	"github.com/kailas-cloud/dbgate/internal/proxy"
	"github.com/kailas-cloud/dbgate/internal/registry"
	listingrepo "github.com/kailas-cloud/dbgate/internal/repository/listing"
	"github.com/kailas-cloud/dbgate/internal/storage"
	chiTransport "github.com/kailas-cloud/dbgate/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/dbgate/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/dbgate/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/dbgate/internal/usecase/health"
	lookupuc "github.com/kailas-cloud/dbgate/internal/usecase/lookup"
	searchuc "github.com/kailas-cloud/dbgate/internal/usecase/search"
	"github.com/kailas-cloud/dbgate/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dbgate",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("built", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("index", cfg.Store.Index),
	)

	ctx := context.Background()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGatewayMetrics()

	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	if cfg.Store.CreateIndex {
		if err := storage.EnsureIndex(ctx, storage.NewWriter(store, &cfg), logger); err != nil {
			logger.Fatal("Failed to prepare store", zap.Error(err))
		}
	}

	// Upstream services
	services, err := registry.New(cfg.ServiceConfigs()...)
	if err != nil {
		logger.Fatal("Invalid service registry", zap.Error(err))
	}
	logger.Info("Service registry built", zap.Strings("services", services.Names()))
	dispatcher := proxy.NewDispatcher(services, nil)

	// Embedder chain and use cases
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutMs) * time.Millisecond,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	instrumented := embeddinguc.NewInstrumentedEmbedder(base, cfg.Embedding.Provider, cfg.Embedding.Model, logger)
	// Validating is outermost so blank input never reaches the provider.
	queryEmbedder := embeddinguc.NewValidating(instrumented)

	vc := cfg.VectorConfig()
	listings := listingrepo.New(store, vc)

	server := chiTransport.NewServer(
		lookupuc.New(listings),
		searchuc.New(listings, queryEmbedder, vc),
		dispatcher,
		healthuc.New(store, instrumented),
		chiTransport.Fixed{Name: cfg.Lookup.FixedName, ID: cfg.Lookup.FixedID},
		logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
