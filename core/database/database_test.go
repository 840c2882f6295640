package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestConfigNormalizeSQLite(t *testing.T) {
	cfg := Config{Driver: "SQLite", Path: "data/bot.db", MaxConnections: 8}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Driver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.Driver)
	}
	if cfg.MaxConnections != 1 {
		t.Fatalf("sqlite pool should be pinned to 1, got %d", cfg.MaxConnections)
	}
	if got := cfg.migrateURL(); got != "sqlite://data/bot.db" {
		t.Fatalf("migrate url = %q", got)
	}
}

func TestConfigNormalizePostgresDefaults(t *testing.T) {
	cfg := Config{Host: "db", Name: "planbot", User: "bot", Password: "p@ss"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Driver != DriverPostgres || cfg.Port != "5432" || cfg.SSLMode != "disable" || cfg.MaxConnections != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got, want := cfg.migrateURL(), "postgres://bot:p%40ss@db:5432/planbot?sslmode=disable"; got != want {
		t.Fatalf("migrate url = %q, want %q", got, want)
	}
}

func TestConfigNormalizeRejectsUnknownDriver(t *testing.T) {
	cfg := Config{Driver: "mysql"}
	if err := cfg.Normalize(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	cfg = Config{Driver: DriverSQLite}
	if err := cfg.Normalize(); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
}

func TestUpFilesAndBetween(t *testing.T) {
	fsys := fstest.MapFS{
		"sqlite/000002_more.up.sql":   {Data: []byte("SELECT 1;")},
		"sqlite/000001_init.up.sql":   {Data: []byte("SELECT 1;")},
		"sqlite/000001_init.down.sql": {Data: []byte("SELECT 1;")},
	}
	files := upFiles(fsys, "sqlite")
	if len(files) != 2 || files[0] != "000001_init.up.sql" || files[1] != "000002_more.up.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
	if got := between(files, 1, 2); len(got) != 1 || got[0] != "000002_more.up.sql" {
		t.Fatalf("unexpected applied: %v", got)
	}
	if got := between(files, 2, 2); got != nil {
		t.Fatalf("expected nothing applied, got %v", got)
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "nested", "bot.db")}
	if err := RunMigrations(cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run is a no-op.
	if err := RunMigrations(cfg); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, db.Rebind("SELECT COUNT(*) FROM users WHERE telegram_id = ?"), 1); err != nil {
		t.Fatalf("query users: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty users table, got %d", n)
	}
}
