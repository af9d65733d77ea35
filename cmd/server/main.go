package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/wildfire-threat-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wildfire-threat-service/internal/adapter/kafka"
	"github.com/couchcryptid/wildfire-threat-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/wildfire-threat-service/internal/adapter/xweather"
	"github.com/couchcryptid/wildfire-threat-service/internal/assess"
	"github.com/couchcryptid/wildfire-threat-service/internal/config"
	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
	"github.com/couchcryptid/wildfire-threat-service/internal/model"
	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
	"github.com/couchcryptid/wildfire-threat-service/internal/provider"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	calibration := domain.DefaultCalibration()
	if cfg.CalibrationPath != "" {
		calibration, err = domain.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			logger.Error("failed to load calibration", "path", cfg.CalibrationPath, "error", err)
			os.Exit(1)
		}
		logger.Info("calibration loaded", "path", cfg.CalibrationPath)
	}

	// Load whichever models are configured; each enables one mode.
	var spread assess.SpreadPredictor
	if cfg.SpreadModelPath != "" {
		m, err := model.LoadSpreadModel(cfg.SpreadModelPath, cfg.ONNXLibDir)
		if err != nil {
			logger.Error("failed to load spread model", "path", cfg.SpreadModelPath, "error", err)
			os.Exit(1)
		}
		defer m.Close()
		spread = m
		metrics.ModelLoaded.WithLabelValues("spread").Set(1)
		logger.Info("spread model loaded", "path", cfg.SpreadModelPath)
	}

	var occurrence assess.OccurrencePredictor
	if cfg.OccurrenceModelPath != "" {
		m, err := model.LoadOccurrenceModel(cfg.OccurrenceModelPath, cfg.ONNXLibDir)
		if err != nil {
			logger.Error("failed to load occurrence model", "path", cfg.OccurrenceModelPath, "error", err)
			os.Exit(1)
		}
		defer m.Close()
		occurrence = m
		metrics.ModelLoaded.WithLabelValues("occurrence").Set(1)
		logger.Info("occurrence model loaded", "path", cfg.OccurrenceModelPath)
	}

	weather := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.WeatherTimeout, cfg.WeatherRateLimitRPS, logger)

	// Lightning is feature-flagged via XWEATHER_ENABLED / credentials.
	var lightning domain.LightningSource
	if cfg.XweatherEnabled {
		lightning = xweather.NewClient(cfg.XweatherClientID, cfg.XweatherClientSecret, cfg.WeatherTimeout, logger)
		metrics.LightningEnabled.Set(1)
		logger.Info("xweather lightning enabled")
	} else {
		logger.Info("xweather lightning disabled")
	}

	terrain := provider.TerrainDefaults{
		NDVI:            cfg.TerrainNDVI,
		NDMI:            cfg.TerrainNDMI,
		SlopePct:        cfg.TerrainSlopePct,
		AspectDeg:       cfg.TerrainAspectDeg,
		FuelMoisturePct: cfg.TerrainFuelMoisture,
	}
	featureSvc := provider.NewFeatureService(weather, lightning, terrain, logger)
	features := provider.NewCachedFetcher(featureSvc, cfg.FeatureCacheSize, cfg.FeatureCacheTTL, metrics)

	var publisher assess.Publisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	assessor := assess.New(features, spread, occurrence, publisher, calibration, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, assessor, assessor, logger)

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
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
