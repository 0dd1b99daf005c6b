// ABOUTME: This file wires the keyword aggregation service together
// ABOUTME: Starts the ingest and rebuild loops, the classification queue and the HTTP server
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"keyword-aggregator/config"
	"keyword-aggregator/driver"
	"keyword-aggregator/handler"
	"keyword-aggregator/logger"
	"keyword-aggregator/repository"
	"keyword-aggregator/service"
	"keyword-aggregator/utils/keywordnorm"
)

func main() {
	// Optional local overrides; in containers everything comes from the env.
	_ = godotenv.Load()

	log := logger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"inference_model", cfg.Inference.Model,
		"ingest_interval", cfg.FeedReader.IngestInterval,
		"rebuild_interval", cfg.Aggregate.RebuildInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := driver.InitDB(ctx, &cfg.Database)
	if err != nil {
		log.Error("failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	normalizer, err := keywordnorm.New()
	if err != nil {
		log.Error("failed to initialize keyword normalizer", "error", err)
		os.Exit(1)
	}

	inference := driver.NewInferenceClient(&cfg.Inference, log)
	feedReader := driver.NewFeedReaderClient(&cfg.FeedReader, log)

	articleRepo := repository.NewArticleRepository(dbPool, log)
	sourceRepo := repository.NewSourceRepository(dbPool, log)

	aggregate := service.NewAggregationCache(articleRepo, log)
	classifier := service.NewClassifier(inference, &cfg.Cache, cfg.Inference.MaxKeywords, log)
	extractor := service.NewHeuristicExtractor(log)

	queue := service.NewClassificationQueue(
		cfg.Queue,
		classifier,
		extractor,
		normalizer,
		articleRepo,
		aggregate,
		log,
	)
	queue.Start(ctx)

	ingestor := service.NewFeedIngestor(
		feedReader,
		sourceRepo,
		articleRepo,
		service.NewDeduplicator(log),
		queue,
		log,
	)

	// Warm the aggregate from what is already classified before serving.
	if err := aggregate.RebuildAll(ctx); err != nil {
		log.Warn("initial aggregate rebuild failed, starting empty", "error", err)
	}

	go runIngestLoop(ctx, ingestor, cfg.FeedReader.IngestInterval, log)
	go runRebuildLoop(ctx, aggregate, cfg.Aggregate.RebuildInterval, log)

	e := newServer(cfg, inference, aggregate, log)

	go func() {
		address := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("starting keyword aggregation server", "address", address)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	// Stop the loops, then drain the queue; workers run batches on a
	// non-canceled context, so buffered articles still persist.
	cancel()
	queue.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}

func newServer(cfg *config.Config, inference *driver.InferenceClient, aggregate *service.AggregationCache, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogError:   true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				log.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	healthHandler := handler.NewHealthHandler(inference, log)
	keywordHandler := handler.NewKeywordHandler(aggregate, log)

	e.GET("/v1/health", healthHandler.Handle)
	e.GET("/v1/keywords", keywordHandler.HandleSnapshot)
	e.POST("/v1/keywords/rebuild", keywordHandler.HandleRebuild)

	return e
}

// runIngestLoop runs one ingestion pass per interval until the context is
// canceled. A failing pass is logged and retried on the next tick.
func runIngestLoop(ctx context.Context, ingestor *service.FeedIngestor, interval time.Duration, log *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("ingest loop panicked", "panic", r)
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// One pass at startup so a restart does not wait a full interval.
	ingestOnce(ctx, ingestor, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("ingest loop stopped")
			return
		case <-ticker.C:
			ingestOnce(ctx, ingestor, log)
		}
	}
}

func ingestOnce(ctx context.Context, ingestor *service.FeedIngestor, log *slog.Logger) {
	stats, err := ingestor.IngestOnce(ctx)
	if err != nil {
		log.Error("ingestion pass failed", "error", err)
		return
	}

	if stats.Fetched > 0 {
		log.Info("ingestion pass finished",
			"fetched", stats.Fetched,
			"enqueued", stats.Enqueued)
	}
}

// runRebuildLoop periodically recomputes the aggregate from the database so
// incremental drift (manual deletes, reprocessing) is bounded by the interval.
func runRebuildLoop(ctx context.Context, aggregate *service.AggregationCache, interval time.Duration, log *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("rebuild loop panicked", "panic", r)
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("rebuild loop stopped")
			return
		case <-ticker.C:
			if err := aggregate.RebuildAll(ctx); err != nil {
				log.Error("scheduled rebuild failed", "error", err)
			}
		}
	}
}
