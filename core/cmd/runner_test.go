package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/planbot/core/config"
	coretelegram "github.com/m3rciful/planbot/core/telegram"
)

type stubConfig struct{ core *coreconfig.Config }

func (s stubConfig) CoreConfig() *coreconfig.Config { return s.core }

type stubApp struct{ opts coretelegram.RunOptions }

func (s stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) { return s.opts, nil }

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("PLANBOT_TEST_CONFIG", "/etc/planbot.yaml")

	p, err := ResolveConfigPath("custom.yaml", "PLANBOT_TEST_CONFIG", "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", p)

	p, err = ResolveConfigPath("", "PLANBOT_TEST_CONFIG", "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/planbot.yaml", p)

	p, err = ResolveConfigPath("", "PLANBOT_TEST_UNSET", "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", p)

	_, err = ResolveConfigPath("", "PLANBOT_TEST_UNSET", "")
	assert.Error(t, err)
}

func TestRunWrapsLifecycleHooks(t *testing.T) {
	var order []string
	app := stubApp{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error {
			order = append(order, "start")
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			order = append(order, "stop")
			return nil
		},
	}}

	err := Run(Options{
		ConfigPath: "any.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			require.NoError(t, opts.OnStart(ctx, coretelegram.Runtime{}))
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "stop"}, order)
}

func TestRunPropagatesBootstrapError(t *testing.T) {
	err := Run(Options{
		ConfigPath: "any.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return stubConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(ConfigCarrier) (TelegramApp, error) { return nil, errors.New("db down") },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
