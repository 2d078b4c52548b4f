// Command restore downloads the shipments database backup, restores it with
// pg_restore, and exports every table of the shipments schema to the data
// directory as CSV — the inputs for fetchweather and process.
//
// Requires the PostgreSQL client tools (pg_restore) on PATH and a reachable
// server at DATABASE_URL. BACKUP_URL points at the dump; when unset, the
// dump at RESTORE_DUMP_PATH is used as-is.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fleetsight/fuel-etl/internal/adapter/postgres"
	"github.com/fleetsight/fuel-etl/internal/config"
	"github.com/fleetsight/fuel-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("restore failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dumpPath := os.Getenv("RESTORE_DUMP_PATH")
	switch {
	case cfg.BackupURL != "":
		dumpPath = filepath.Join(os.TempDir(), "shipments_schema.bkp")
		if err := postgres.DownloadBackup(ctx, http.DefaultClient, cfg.BackupURL, dumpPath, logger); err != nil {
			return err
		}
	case dumpPath == "":
		return errors.New("either BACKUP_URL or RESTORE_DUMP_PATH must be set")
	}

	r := postgres.NewRestorer(cfg.DatabaseURL, cfg.PGSchema, logger)

	if err := r.EnsureDatabase(ctx); err != nil {
		return err
	}
	if err := r.Restore(ctx, dumpPath); err != nil {
		return err
	}

	exported, err := r.ExportTables(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	logger.Info("export complete", "tables", len(exported), "dir", cfg.DataDir)
	return nil
}
