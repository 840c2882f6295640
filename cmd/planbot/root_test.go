package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandLayout(t *testing.T) {
	root := newRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["migrate"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestMigrateCommandCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "planbot.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "telegram:\n  token: \"1:x\"\nlogging:\n  dir: " + filepath.Join(dir, "logs") +
		"\ndatabase:\n  driver: sqlite\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	root := newRootCommand()
	root.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}
