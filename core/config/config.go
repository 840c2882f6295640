// Package config holds the settings shared by every bot built on core: the
// Telegram connection, webhook, logging, inbound rate limit and outbound
// sender. Applications embed Config and load it from YAML plus environment.
package config

import "time"

const (
	// RunModeWebhook receives updates through an HTTPS webhook.
	RunModeWebhook = "webhook"
	// RunModeLongpoll receives updates through getUpdates long polling.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback names callback button presses in rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage names messages in rate limit exclusions.
	UpdateMessage = "message"
)

// TelegramConfig describes the bot connection.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// Synchronous processes updates one at a time on the poller goroutine.
	// Nil means true.
	Synchronous *bool `yaml:"synchronous" envconfig:"TELEGRAM_SYNCHRONOUS"`
}

// IsSynchronous reports whether updates are handled sequentially.
func (t TelegramConfig) IsSynchronous() bool {
	return t.Synchronous == nil || *t.Synchronous
}

// WebhookConfig is required in webhook mode only.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig throttles inbound updates per user. ExcludeUpdates lists
// update kinds ("callback", "message") that bypass the limiter.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	Burst          int      `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Interval returns IntervalMS as a duration.
func (r RateLimitConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMS) * time.Millisecond
}

// SenderConfig tunes the asynchronous reply queue.
type SenderConfig struct {
	Workers    int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	QueueSize  int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	MaxRetries int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	// PerSecond caps outbound calls; Telegram allows about 30 per second.
	PerSecond float64 `yaml:"per_second" envconfig:"SENDER_PER_SECOND"`
}

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sender    SenderConfig    `yaml:"sender"`
}
