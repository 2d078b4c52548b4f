package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "shipments.csv"), cfg.ShipmentsFile)
	assert.Equal(t, filepath.Join("data", "cities_weather_data.csv"), cfg.WeatherFile)
	assert.Equal(t, filepath.Join("data", "cities.csv"), cfg.CitiesFile)
	assert.Equal(t, filepath.Join("data", "aggregated_metrics.csv"), cfg.OutputFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://archive-api.open-meteo.com/v1/archive", cfg.OpenMeteoBaseURL)
	assert.Equal(t, 10*time.Second, cfg.OpenMeteoTimeout)
	assert.Empty(t, cfg.TargetDate)
	assert.Equal(t, 12, cfg.TargetHour)
	assert.Equal(t, "postgres://postgres@localhost:5432/shipments_db", cfg.DatabaseURL)
	assert.Equal(t, "shipments", cfg.PGSchema)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/fuel-etl")
	t.Setenv("SHIPMENTS_FILE", "/tmp/ship.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OPEN_METEO_TIMEOUT", "5s")
	t.Setenv("TARGET_DATE", "2025-03-24")
	t.Setenv("TARGET_HOUR", "9")
	t.Setenv("BACKUP_URL", "https://backups.example.com/shipments_schema.bkp")
	t.Setenv("DATABASE_URL", "postgres://etl@db:5432/fleet")
	t.Setenv("PG_SCHEMA", "logistics")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ship.csv", cfg.ShipmentsFile)
	// Unset file paths still follow DATA_DIR.
	assert.Equal(t, filepath.Join("/var/lib/fuel-etl", "cities.csv"), cfg.CitiesFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.OpenMeteoTimeout)
	assert.Equal(t, "2025-03-24", cfg.TargetDate)
	assert.Equal(t, 9, cfg.TargetHour)
	assert.Equal(t, "https://backups.example.com/shipments_schema.bkp", cfg.BackupURL)
	assert.Equal(t, "postgres://etl@db:5432/fleet", cfg.DatabaseURL)
	assert.Equal(t, "logistics", cfg.PGSchema)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative fetch timeout", "OPEN_METEO_TIMEOUT", "-5s"},
		{"hour out of range", "TARGET_HOUR", "24"},
		{"non-numeric hour", "TARGET_HOUR", "noon"},
		{"malformed target date", "TARGET_DATE", "24-03-2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
