package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/windforest/windforest/internal/api"
	"github.com/windforest/windforest/internal/api/uistatic"
	"github.com/windforest/windforest/internal/archive"
	"github.com/windforest/windforest/internal/auth"
	"github.com/windforest/windforest/internal/config"
	"github.com/windforest/windforest/internal/engine"
	"github.com/windforest/windforest/internal/nl2sql"
	"github.com/windforest/windforest/internal/observability"
	duckdbengine "github.com/windforest/windforest/internal/query/duckdb"
	"github.com/windforest/windforest/internal/session"
	sessionpostgres "github.com/windforest/windforest/internal/session/postgres"
	s3store "github.com/windforest/windforest/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("windforest-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	queryEngine, err := duckdbengine.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = queryEngine.Close() }()

	generator, err := nl2sql.NewOpenAIGenerator(nl2sql.OpenAIConfig{
		BaseURL:     cfg.OpenAI.BaseURL,
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize query generator", slog.Any("error", err))
		os.Exit(1)
	}

	var sessions session.Store
	switch cfg.Sessions.Backend {
	case config.SessionBackendPostgres:
		sessionDB, err := sessionpostgres.Open(context.Background(), sessionpostgres.DBConfig{
			DSN:             cfg.Sessions.DSN,
			MaxOpenConns:    cfg.Sessions.MaxOpenConns,
			MaxIdleConns:    cfg.Sessions.MaxIdleConns,
			ConnMaxIdleTime: cfg.Sessions.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Sessions.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open session db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = sessionDB.Close() }()
		store := sessionpostgres.NewStore(sessionDB)
		if err := store.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to prepare session schema", slog.Any("error", err))
			os.Exit(1)
		}
		sessions = store
	default:
		sessions = session.NewMemoryStore()
	}

	var archiver api.ArchiveRunner
	if cfg.Archive.Enabled {
		objectStore, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = archive.NewService(queryEngine.DB(), objectStore, logger)
	}

	processor := engine.New(generator, queryEngine, logger)

	deps := api.Dependencies{
		Logger:    logger,
		Processor: processor,
		Sessions:  sessions,
		Archiver:  archiver,
		UI:        uistatic.Handler(),
		Readiness: api.CombineReadinessChecks(
			api.CheckDatabase(queryEngine),
			api.CheckOpenAIConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
