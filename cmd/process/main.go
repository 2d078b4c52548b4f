// Command process runs the aggregation pass: it left-joins the shipments
// export with the collected weather data, buckets temperatures by batch
// quartiles, and writes the mean fuel consumption per bucket as CSV.
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
	"github.com/fleetsight/fuel-etl/internal/config"
	"github.com/fleetsight/fuel-etl/internal/observability"
	"github.com/fleetsight/fuel-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	extractor := csvfile.NewExtractor(cfg.ShipmentsFile, cfg.WeatherFile)
	transformer := pipeline.NewTransformer(logger, metrics)
	writer := csvfile.NewWriter(cfg.OutputFile)

	p := pipeline.New(extractor, transformer, writer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ops endpoints are opt-in for batch runs; orchestrators that scrape
	// metrics set METRICS_ADDR.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)
	if runErr == nil {
		logger.Info("aggregated metrics written", "path", cfg.OutputFile)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
