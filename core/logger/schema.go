package logger

import (
	"log/slog"
	"strings"
)

// levelName renders slog levels the way log consumers expect them.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// outcomeValues is the closed vocabulary of handler outcomes; other values
// are dropped from the line.
var outcomeValues = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"cancelled":    {},
	"rate_limited": {},
}

// defaultKeyOrder puts the fields read most often first; the rest follow
// alphabetically.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type",
	"handler", "op", "cb_key", "outcome", "duration_ms",
	"messages", "kb", "payload", "media",
	"task_id", "event_id", "file_id", "count",
	"attempted", "delivered", "failed", "error_kind",
	"err", "err_code", "retryable", "attempts", "backoff_ms",
	"mode", "listen", "public_url", "http_code",
	"driver", "db", "host", "port",
	"state",
}
