package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/planbot/core/config"
	"github.com/m3rciful/planbot/core/logger"
	coretelegram "github.com/m3rciful/planbot/core/telegram"
)

// DefaultConfigEnvVar names the environment variable consulted when no
// explicit config path is given.
const DefaultConfigEnvVar = "CONFIG_PATH"

// ConfigCarrier exposes access to the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is the minimal interface required to run a Telegram bot.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	// ConfigPath wins over ConfigEnvVar and DefaultConfigPath when set.
	ConfigPath        string
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

// Run loads the configuration, bootstraps the app and serves Telegram updates
// until SIGINT or SIGTERM. Buffered log lines are flushed on every exit path
// after bootstrap started.
func Run(opts Options) error {
	startedAt := time.Now()
	switch {
	case opts.LoadConfig == nil:
		return errors.New("cmd: LoadConfig is required")
	case opts.Bootstrap == nil:
		return errors.New("cmd: Bootstrap is required")
	}

	cfg, err := load(opts)
	if err != nil {
		return err
	}

	flush := opts.ShutdownLogger
	if flush == nil {
		flush = logger.Shutdown
	}
	defer func() {
		if ferr := flush(); ferr != nil {
			log.Printf("cmd: logger shutdown: %v", ferr)
		}
	}()

	app, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap: %w", err)
	}
	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options: %w", err)
	}
	withLifecycleLogs(&runOpts, startedAt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.RunTelegram != nil {
		return opts.RunTelegram(ctx, runOpts)
	}
	return coretelegram.RunTelegram(ctx, runOpts)
}

// load resolves the config path and reads it. The logger is not configured
// yet, so progress goes to the standard log package.
func load(opts Options) (ConfigCarrier, error) {
	path, err := ResolveConfigPath(opts.ConfigPath, opts.ConfigEnvVar, opts.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	log.Printf("cmd: loading config %s", path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: load config %s: %w", path, err)
	}
	if cfg == nil || cfg.CoreConfig() == nil {
		return nil, errors.New("cmd: config has no core section")
	}
	return cfg, nil
}

// withLifecycleLogs wraps the start and stop hooks with the app ready and
// shutdown lines. The ready line is written only after the app's own
// OnStart succeeded.
func withLifecycleLogs(opts *coretelegram.RunOptions, startedAt time.Time) {
	app := logger.Component("app")
	onStart, onStop := opts.OnStart, opts.OnStop

	opts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		app.Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", time.Since(startedAt)),
		)
		return nil
	}
	opts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		app.Info("shutting down", slog.String("event", "shutdown"))
		if onStop == nil {
			return nil
		}
		return onStop(ctx, rt)
	}
}

// ResolveConfigPath picks the explicit path, then the environment variable,
// then the fallback.
func ResolveConfigPath(explicit, envVar, fallback string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if envVar == "" {
		envVar = DefaultConfigEnvVar
	}
	if p := os.Getenv(envVar); p != "" {
		return p, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("cmd: config path not provided via --config, %s or default", envVar)
}
