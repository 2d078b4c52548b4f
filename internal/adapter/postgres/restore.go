// Package postgres restores a shipments backup and exports its tables as
// CSV: download the dump, pg_restore it, then COPY each table of the target
// schema out with a header row.
package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"

	"github.com/jackc/pgx/v5"
)

// DownloadBackup streams a backup dump from url to dest. The body is copied
// chunk by chunk, so dump size is not bounded by memory.
func DownloadBackup(ctx context.Context, client *http.Client, url, dest string, logger *slog.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download backup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download backup: status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	logger.Info("downloaded backup", "url", url, "dest", dest, "bytes", n)
	return nil
}

// Restorer restores a dump into the configured database and exports the
// tables of one schema.
type Restorer struct {
	databaseURL string
	schema      string
	logger      *slog.Logger
}

// NewRestorer creates a Restorer for the given connection URL and schema.
func NewRestorer(databaseURL, schema string, logger *slog.Logger) *Restorer {
	return &Restorer{databaseURL: databaseURL, schema: schema, logger: logger}
}

// EnsureDatabase creates the target database when it does not exist yet,
// going through the server's maintenance database.
func (r *Restorer) EnsureDatabase(ctx context.Context) error {
	cfg, err := pgx.ParseConfig(r.databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	target := cfg.Database
	cfg.Database = "postgres"

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, target).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %s: %w", target, err)
	}
	if exists {
		return nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{target}.Sanitize()); err != nil {
		return fmt.Errorf("create database %s: %w", target, err)
	}
	r.logger.Info("created database", "name", target)
	return nil
}

// Restore runs pg_restore against the configured database. The dump is
// restored clean, dropping objects it recreates, without ACLs or ownership
// so it loads under any role.
func (r *Restorer) Restore(ctx context.Context, dumpPath string) error {
	args := []string{
		"--clean", "--if-exists", "--no-acl", "--no-owner",
		"--dbname", r.databaseURL,
		dumpPath,
	}
	cmd := exec.CommandContext(ctx, "pg_restore", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pg_restore: %w: %s", err, out)
	}
	r.logger.Info("restored backup", "dump", dumpPath)
	return nil
}

// ListTables returns the table names of the configured schema.
func (r *Restorer) ListTables(ctx context.Context) ([]string, error) {
	conn, err := pgx.Connect(ctx, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `SELECT tablename FROM pg_tables WHERE schemaname = $1 ORDER BY tablename`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ExportTables copies every table of the schema to <outDir>/<table>.csv with
// a header row and returns table name to file path.
func (r *Restorer) ExportTables(ctx context.Context, outDir string) (map[string]string, error) {
	tables, err := r.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("schema %q has no tables", r.schema)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	conn, err := pgx.Connect(ctx, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	exported := make(map[string]string, len(tables))
	for _, table := range tables {
		path, err := r.exportTable(ctx, conn, table, outDir)
		if err != nil {
			return nil, err
		}
		exported[table] = path
		r.logger.Info("exported table", "table", table, "path", path)
	}
	return exported, nil
}

func (r *Restorer) exportTable(ctx context.Context, conn *pgx.Conn, table, outDir string) (string, error) {
	path := fmt.Sprintf("%s/%s.csv", outDir, table)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	copySQL := fmt.Sprintf("COPY %s TO STDOUT WITH CSV HEADER", pgx.Identifier{r.schema, table}.Sanitize())
	if _, err := conn.PgConn().CopyTo(ctx, f, copySQL); err != nil {
		return "", fmt.Errorf("export %s.%s: %w", r.schema, table, err)
	}
	return path, nil
}
