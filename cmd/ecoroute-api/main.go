// README: Entry point; loads config, wires the analysis service and optional stores, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecoroute/internal/ai"
	"ecoroute/internal/config"
	httptransport "ecoroute/internal/http"
	"ecoroute/internal/http/handlers"
	"ecoroute/internal/infra"
	"ecoroute/internal/logging"
	"ecoroute/internal/maps"
	"ecoroute/internal/modules/aiusage"
	"ecoroute/internal/modules/analysis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	analyzer, err := ai.NewAnalyzer(ctx, ai.Options{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		return err
	}
	defer func() { _ = analyzer.Close() }()

	deps := analysis.Deps{Analyzer: analyzer, Logger: logger}

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		deps.History = analysis.NewPostgresHistory(dbPool)
		deps.Quota = aiusage.NewService(aiusage.NewStore(dbPool, cfg.Quota.MonthlyAnalyses))
		logger.Info("history and quota enabled", zap.Int("monthly_analyses", cfg.Quota.MonthlyAnalyses))
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		deps.Latest = analysis.NewRedisSlot(redisClient, cfg.Redis.LatestTTL)
	} else {
		logger.Info("redis not configured; latest analysis kept in memory")
	}

	var places handlers.CitySuggester
	if cfg.Maps.APIKey != "" {
		svc, err := maps.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.Region, cfg.Maps.Language)
		if err != nil {
			return err
		}
		places = svc
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Analysis:       analysis.NewService(deps),
		Places:         places,
		AnalyzeTimeout: cfg.HTTP.AnalyzeTimeout,
		Logger:         logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("provider", cfg.AI.Provider))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
