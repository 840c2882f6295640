package config

import (
	"errors"
	"fmt"
	"strings"
)

const defaultSenderPerSecond = 25

// Normalize validates cfg and fills defaults in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram token is required")
	}
	if err := cfg.normalizeRunMode(); err != nil {
		return err
	}
	if err := cfg.RateLimit.normalize(); err != nil {
		return err
	}
	return cfg.Sender.normalize()
}

func (cfg *Config) normalizeRunMode() error {
	mode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	switch mode {
	case "", "polling":
		mode = RunModeLongpoll
	}
	switch mode {
	case RunModeWebhook:
		wh := cfg.Webhook
		switch {
		case strings.TrimSpace(wh.URL) == "":
			return errors.New("webhook.url is required when telegram.run_mode is 'webhook'")
		case strings.TrimSpace(wh.Listen) == "":
			return errors.New("webhook.listen is required when telegram.run_mode is 'webhook'")
		case wh.Port <= 0:
			return errors.New("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return errors.New("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = mode
	return nil
}

func (r *RateLimitConfig) normalize() error {
	if r.IntervalMS < 0 {
		return errors.New("rate_limit.interval_ms must be >= 0")
	}
	r.Burst = max(r.Burst, 1)

	kinds := r.ExcludeUpdates[:0]
	for _, v := range r.ExcludeUpdates {
		switch key := strings.ToLower(strings.TrimSpace(v)); key {
		case "":
		case UpdateCallback, UpdateMessage:
			kinds = append(kinds, key)
		default:
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
	}
	r.ExcludeUpdates = kinds
	return nil
}

func (s *SenderConfig) normalize() error {
	if s.Workers < 0 || s.QueueSize < 0 || s.MaxRetries < 0 {
		return errors.New("sender.workers, sender.queue_size and sender.max_retries must be >= 0")
	}
	switch {
	case s.PerSecond < 0:
		return errors.New("sender.per_second must be >= 0")
	case s.PerSecond == 0:
		s.PerSecond = defaultSenderPerSecond
	}
	return nil
}
