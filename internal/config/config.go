package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings for all three pipeline binaries, populated from
// environment variables. A .env-style file is loaded first when present
// (CONFIG_ENV overrides its location), matching the config/config.env layout
// the data directory ships with.
type Config struct {
	// Input/output locations.
	DataDir       string
	ShipmentsFile string
	WeatherFile   string
	CitiesFile    string
	OutputFile    string

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the ops HTTP server (healthz/readyz/metrics) when
	// non-empty.
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Weather collection.
	OpenMeteoBaseURL string
	OpenMeteoTimeout time.Duration
	TargetDate       string // YYYY-MM-DD; empty means "five days ago"
	TargetHour       int

	// Backup restore.
	BackupURL   string
	DatabaseURL string
	PGSchema    string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	loadEnvFile()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("OPEN_METEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	targetHour, err := parseInt("TARGET_HOUR", 12)
	if err != nil {
		return nil, err
	}

	dataDir := envOrDefault("DATA_DIR", "data")

	cfg := &Config{
		DataDir:       dataDir,
		ShipmentsFile: envOrDefault("SHIPMENTS_FILE", filepath.Join(dataDir, "shipments.csv")),
		WeatherFile:   envOrDefault("WEATHER_FILE", filepath.Join(dataDir, "cities_weather_data.csv")),
		CitiesFile:    envOrDefault("CITIES_FILE", filepath.Join(dataDir, "cities.csv")),
		OutputFile:    envOrDefault("OUTPUT_FILE", filepath.Join(dataDir, "aggregated_metrics.csv")),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		OpenMeteoBaseURL: envOrDefault("OPEN_METEO_BASE_URL", "https://archive-api.open-meteo.com/v1/archive"),
		OpenMeteoTimeout: fetchTimeout,
		TargetDate:       os.Getenv("TARGET_DATE"),
		TargetHour:       targetHour,

		BackupURL:   os.Getenv("BACKUP_URL"),
		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://postgres@localhost:5432/shipments_db"),
		PGSchema:    envOrDefault("PG_SCHEMA", "shipments"),
	}

	if cfg.TargetHour < 0 || cfg.TargetHour > 23 {
		return nil, errors.New("TARGET_HOUR must be between 0 and 23")
	}
	if cfg.TargetDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.TargetDate); err != nil {
			return nil, fmt.Errorf("invalid TARGET_DATE: %w", err)
		}
	}
	if cfg.OpenMeteoBaseURL == "" {
		return nil, errors.New("OPEN_METEO_BASE_URL is required")
	}

	return cfg, nil
}

// loadEnvFile loads CONFIG_ENV when set, otherwise tries .env best-effort.
// A missing file is not an error; explicit paths that fail to parse are
// surfaced through os.Stderr by godotenv itself.
func loadEnvFile() {
	if path := os.Getenv("CONFIG_ENV"); path != "" {
		_ = godotenv.Load(path)
		return
	}
	_ = godotenv.Load()
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
