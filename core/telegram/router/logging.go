// Package router turns a Registry into telebot routes. Every route writes
// one handler.handled summary line per update.
package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/planbot/core/logger"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"
	"github.com/m3rciful/planbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary describes one handled update.
type summary struct {
	name    string
	start   time.Time
	status  string
	outcome string
	extras  []slog.Attr
}

func newSummary(name string, extras ...slog.Attr) *summary {
	return &summary{name: name, start: time.Now(), extras: extras}
}

// run tags the update context with the handler name, calls fn and logs the
// result.
func (s *summary) run(c tele.Context, fn tele.HandlerFunc) error {
	tghelpers.WithHandler(c, s.name)
	err := fn(c)
	s.log(c, err)
	return err
}

func (s *summary) log(c tele.Context, err error) {
	status, outcome := s.status, s.outcome
	if err != nil {
		status, outcome = "fail", "fail"
	}
	status, outcome = orOK(status), orOK(outcome)

	stats := middleware.ReplyStats(c)
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.Int("messages", stats.Messages),
		slog.Int("edits", stats.Edits),
		slog.Bool("kb", stats.Keyboard),
		slog.Duration("duration", time.Since(s.start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, s.extras...)
	logger.LogEvent(tghelpers.WithHandler(c, s.name), logger.TG, slog.LevelInfo, "handler.handled", attrs...)
}

func orOK(s string) string {
	if s == "" {
		return "ok"
	}
	return s
}

func handlerName(prefix, name string) string {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		name = "unknown"
	}
	return prefix + strings.ReplaceAll(name, " ", "_")
}

// errorCode prefers an error's own Code() and falls back to its type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
