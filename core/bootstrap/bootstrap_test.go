package bootstrap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/planbot/core/config"
	coredatabase "github.com/m3rciful/planbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunConnectsAndMigratesSQLite(t *testing.T) {
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "bot.db")},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)
	defer res.DB.Close()

	var n int
	require.NoError(t, res.DB.Get(&n, "SELECT COUNT(*) FROM tasks"))
	assert.Zero(t, n)
}

func TestRunStopsOnMigrationFailure(t *testing.T) {
	connected := false
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return sqlx.Open(coredatabase.DriverSQLite, ":memory:")
		},
		Migrate: func(coredatabase.Config) error { return errors.New("dirty") },
	})
	require.Error(t, err)
	assert.True(t, connected)
	assert.Contains(t, err.Error(), "migrations failed")
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(Options{})
	assert.Error(t, err)
}
