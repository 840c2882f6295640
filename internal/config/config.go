// Package config loads the planbot configuration: the shared core settings
// plus database, file storage and broadcast options.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/planbot/core/config"
	coredatabase "github.com/m3rciful/planbot/core/database"
)

const (
	defaultFilesDir           = "data/files"
	defaultSendTimeoutSeconds = 10
)

// StorageConfig points at the directory uploaded files are saved to.
type StorageConfig struct {
	FilesDir string `yaml:"files_dir" envconfig:"STORAGE_FILES_DIR"`
}

// BroadcastConfig tunes the send-to-all fan-out.
type BroadcastConfig struct {
	SendTimeoutSeconds int `yaml:"send_timeout_seconds" envconfig:"BROADCAST_SEND_TIMEOUT_SECONDS"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database  coredatabase.Config `yaml:"database"`
	Storage   StorageConfig       `yaml:"storage"`
	Broadcast BroadcastConfig     `yaml:"broadcast"`
}

// CoreConfig exposes the embedded core settings.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}
	c.Storage.FilesDir = strings.TrimSpace(c.Storage.FilesDir)
	if c.Storage.FilesDir == "" {
		c.Storage.FilesDir = defaultFilesDir
	}
	switch {
	case c.Broadcast.SendTimeoutSeconds == 0:
		c.Broadcast.SendTimeoutSeconds = defaultSendTimeoutSeconds
	case c.Broadcast.SendTimeoutSeconds < 0:
		return fmt.Errorf("broadcast.send_timeout_seconds must be > 0")
	}
	return nil
}
