package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Model files. At least one must be set; a missing path disables the
	// corresponding prediction mode.
	SpreadModelPath     string
	OccurrenceModelPath string
	ONNXLibDir          string

	// Optional YAML overrides for the fire behavior calibration.
	CalibrationPath string

	// Weather provider (Open-Meteo).
	OpenMeteoBaseURL    string
	WeatherTimeout      time.Duration
	WeatherRateLimitRPS float64

	// Lightning provider (Xweather), feature-flagged like other optional
	// upstreams: setting credentials enables it, XWEATHER_ENABLED overrides.
	XweatherClientID     string
	XweatherClientSecret string
	XweatherEnabled      bool

	// Feature cache.
	FeatureCacheSize int
	FeatureCacheTTL  time.Duration

	// Optional Kafka publishing of completed threat reports.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Terrain and vegetation defaults used when no remote-sensing feed is
	// wired in. Values follow the reference deployment's fallbacks.
	TerrainNDVI         float64
	TerrainNDMI         float64
	TerrainSlopePct     float64
	TerrainAspectDeg    float64
	TerrainFuelMoisture float64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("FEATURE_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("FEATURE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	rateRPS, err := parsePositiveFloat("WEATHER_RATE_LIMIT_RPS", 2)
	if err != nil {
		return nil, err
	}

	xweatherID := os.Getenv("XWEATHER_CLIENT_ID")
	xweatherSecret := os.Getenv("XWEATHER_CLIENT_SECRET")
	xweatherEnabled := xweatherID != "" && xweatherSecret != ""
	if v := os.Getenv("XWEATHER_ENABLED"); v != "" {
		xweatherEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SpreadModelPath:     os.Getenv("ROS_MODEL_PATH"),
		OccurrenceModelPath: os.Getenv("CLASSIFIER_MODEL_PATH"),
		ONNXLibDir:          os.Getenv("ONNX_LIB_DIR"),

		CalibrationPath: os.Getenv("CALIBRATION_PATH"),

		OpenMeteoBaseURL:    envOrDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com"),
		WeatherTimeout:      weatherTimeout,
		WeatherRateLimitRPS: rateRPS,

		XweatherClientID:     xweatherID,
		XweatherClientSecret: xweatherSecret,
		XweatherEnabled:      xweatherEnabled,

		FeatureCacheSize: cacheSize,
		FeatureCacheTTL:  cacheTTL,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "wildfire-threat-reports"),
	}

	if cfg.TerrainNDVI, err = parseFloat("TERRAIN_NDVI", 0.5); err != nil {
		return nil, err
	}
	if cfg.TerrainNDMI, err = parseFloat("TERRAIN_NDMI", 0.3); err != nil {
		return nil, err
	}
	if cfg.TerrainSlopePct, err = parseFloat("TERRAIN_SLOPE_PCT", 10); err != nil {
		return nil, err
	}
	if cfg.TerrainAspectDeg, err = parseFloat("TERRAIN_ASPECT_DEG", 180); err != nil {
		return nil, err
	}
	if cfg.TerrainFuelMoisture, err = parseFloat("TERRAIN_FUEL_MOISTURE_PCT", 100); err != nil {
		return nil, err
	}

	if cfg.SpreadModelPath == "" && cfg.OccurrenceModelPath == "" {
		return nil, errors.New("at least one of ROS_MODEL_PATH or CLASSIFIER_MODEL_PATH is required")
	}
	if cfg.XweatherEnabled && (cfg.XweatherClientID == "" || cfg.XweatherClientSecret == "") {
		return nil, errors.New("XWEATHER_ENABLED is true but XWEATHER_CLIENT_ID/XWEATHER_CLIENT_SECRET are not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
