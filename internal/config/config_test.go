package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/planbot/core/database"
)

const sampleYAML = `
telegram:
  token: "123:abc"
  run_mode: polling
logging:
  level: debug
rate_limit:
  interval_ms: 500
  exclude_updates: [Callback]
database:
  driver: sqlite
  path: data/planbot.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.True(t, cfg.Telegram.IsSynchronous())
	assert.Equal(t, 1, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"callback"}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, coredatabase.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/files", cfg.Storage.FilesDir)
	assert.Equal(t, 10, cfg.Broadcast.SendTimeoutSeconds)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:env")
	t.Setenv("STORAGE_FILES_DIR", "/srv/files")
	t.Setenv("TELEGRAM_SYNCHRONOUS", "false")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "999:env", cfg.Telegram.Token)
	assert.Equal(t, "/srv/files", cfg.Storage.FilesDir)
	assert.False(t, cfg.Telegram.IsSynchronous())
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "database:\n  driver: sqlite\n  path: x.db\n"))
	assert.Error(t, err, "missing token")

	_, err = Load(writeConfig(t, "telegram:\n  token: t\ndatabase:\n  driver: oracle\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
