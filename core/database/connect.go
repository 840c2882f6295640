package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/planbot/core/logger"
)

const (
	connectTimeout = 5 * time.Second
	readyTimeout   = 30 * time.Second
	readyPoll      = 2 * time.Second
)

func init() {
	// modernc registers itself as "sqlite"; sqlx only knows "sqlite3" out of the box.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Connect opens and pings the database and sizes the pool from
// cfg.MaxConnections.
func Connect(cfg Config) (*sqlx.DB, error) {
	if err := cfg.prepare(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.connectDSN())
	took := slog.Duration("duration", time.Since(start))
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", cfg.Driver),
			cfg.target(),
			took,
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", cfg.Driver),
		cfg.target(),
		slog.Int("pool_open", cfg.MaxConnections),
		took,
	)
	return db, nil
}

// waitReady polls a postgres server until it accepts connections, which
// matters when the bot and database containers start together. SQLite is
// always ready.
func waitReady(ctx context.Context, cfg Config) error {
	if cfg.Driver != DriverPostgres {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	tick := time.NewTicker(readyPoll)
	defer tick.Stop()
	for {
		err := ping(ctx, cfg)
		if err == nil {
			return nil
		}
		logger.DB.Debug("db not ready",
			slog.String("event", "db.wait"),
			cfg.target(),
			slog.String("err", err.Error()),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout reached waiting for database: %w", err)
		case <-tick.C:
		}
	}
}

func ping(ctx context.Context, cfg Config) error {
	db, err := sqlx.Open(cfg.Driver, cfg.connectDSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}
