package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/artifact"
	httpadapter "github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/http"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/influx"
	kafkaadapter "github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/kafka"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/mysql"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/config"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/feature"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/observability"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/predictor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// MySQL backs the static reference stores (drought, terrain, population)
	// regardless of which weather backend is selected.
	db, err := mysql.Open(cfg.MySQL.DSN())
	if err != nil {
		logger.Error("failed to open reference database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := mysql.NewStore(db)

	var weather feature.WeatherStore = store
	if cfg.WeatherBackend == config.WeatherBackendInflux {
		influxStore := influx.NewWeatherStore(cfg.Influx)
		defer influxStore.Close()
		weather = influxStore
		logger.Info("using influxdb weather backend", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
	}

	terrain := feature.NewCachedTerrainStore(store, cfg.StaticCacheSize)
	population := feature.NewCachedPopulationStore(store, cfg.StaticCacheSize)
	assembler := feature.New(weather, store, terrain, population, logger)

	registry := model.NewRegistry()
	trained, err := artifact.Load(cfg.ModelPath)
	if err != nil {
		// The service starts degraded without a model; /readyz reports it
		// and requests fail with ServiceUnavailable until one is published.
		logger.Warn("no active model loaded", "path", cfg.ModelPath, "error", err)
	} else if err := registry.Publish(trained); err != nil {
		logger.Error("failed to publish model", "version", trained.Version, "error", err)
		os.Exit(1)
	} else {
		logger.Info("active model published",
			"version", trained.Version,
			"schema", trained.SchemaVersion,
			"auc", trained.Metadata.AUC)
	}

	// Prediction publishing is feature-flagged via KAFKA_ENABLED.
	var publisher predictor.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka prediction publishing enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka prediction publishing disabled")
	}

	horizon := domain.Horizon{MinDays: cfg.HorizonMinDays, MaxDays: cfg.HorizonMaxDays}
	svc := predictor.New(assembler, registry, publisher, logger, metrics,
		horizon, cfg.LookbackDays, cfg.RequestTimeout)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
