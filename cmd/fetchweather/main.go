// Command fetchweather reads the cities export and collects one historical
// weather observation per city from the Open-Meteo archive, writing the
// result as the weather CSV the process command consumes. The target date
// defaults to five days ago, the archive's availability delay; override it
// with TARGET_DATE.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetsight/fuel-etl/internal/adapter/csvfile"
	httpadapter "github.com/fleetsight/fuel-etl/internal/adapter/http"
	"github.com/fleetsight/fuel-etl/internal/adapter/openmeteo"
	"github.com/fleetsight/fuel-etl/internal/collector"
	"github.com/fleetsight/fuel-etl/internal/config"
	"github.com/fleetsight/fuel-etl/internal/domain"
	"github.com/fleetsight/fuel-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.OpenMeteoTimeout, logger)
	c := collector.New(client, logger, metrics, cfg.TargetHour)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, c, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
	}

	runErr := run(ctx, cfg, c, logger)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("weather collection failed", "error", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, c *collector.Collector, logger *slog.Logger) error {
	cities, err := csvfile.ReadCities(cfg.CitiesFile)
	if err != nil {
		return err
	}
	logger.Info("loaded cities", "count", len(cities), "path", cfg.CitiesFile)

	date := cfg.TargetDate
	if date == "" {
		date = domain.DefaultCollectionDate()
	}

	observations, err := c.Collect(ctx, cities, date)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return errors.New("no weather observations collected")
	}

	if err := csvfile.WriteObservations(cfg.WeatherFile, observations); err != nil {
		return err
	}
	logger.Info("weather data written",
		"path", cfg.WeatherFile,
		"cities", len(observations),
		"date", date,
	)
	return nil
}
