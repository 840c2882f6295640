package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/migrations"
)

// RunMigrations applies the embedded up migrations for cfg.Driver. Running
// it against an up to date schema is a no-op.
func RunMigrations(cfg Config) error {
	return runMigrations(cfg, migrations.FS)
}

func runMigrations(cfg Config, fsys fs.FS) error {
	if err := cfg.prepare(); err != nil {
		return err
	}
	if err := waitReady(context.Background(), cfg); err != nil {
		logger.MIG.Error("db not ready", slog.String("event", "db.migrate"), slog.String("err", err.Error()))
		return fmt.Errorf("database not ready: %w", err)
	}

	files := upFiles(fsys, cfg.Driver)
	logger.MIG.Debug("migrations resolved",
		append([]any{slog.String("event", "resolve"), slog.String("path", cfg.Driver)}, fileAttrs(files)...)...)

	src, err := iofs.New(fsys, cfg.Driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.migrateURL())
	if err != nil {
		logger.MIG.Error("init failed", slog.String("event", "db.migrate"), slog.String("err", err.Error()))
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	from, _, _ := m.Version()
	start := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("migration execution failed: %w", err)
	}
	to, _, _ := m.Version()

	applied := between(files, uint64(from), uint64(to))
	if len(applied) > 0 {
		logger.MIG.Debug("applied files", append([]any{slog.String("event", "apply")}, fileAttrs(applied)...)...)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.String("driver", cfg.Driver),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func fileAttrs(files []string) []any {
	preview, truncated := logger.SummarizeStrings(files, 6)
	return []any{
		slog.Int("files_total", len(files)),
		slog.String("files_preview", preview),
		slog.Bool("files_truncated", truncated),
	}
}

// upFiles lists the *.up.sql names under dir, sorted by version.
func upFiles(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

func version(name string) uint64 {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return v
}

// between returns the files with from < version <= to.
func between(files []string, from, to uint64) []string {
	if to <= from {
		return nil
	}
	var out []string
	for _, f := range files {
		if v := version(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
