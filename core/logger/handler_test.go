package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/planbot/core/config"
)

func captureLine(t *testing.T, enc encoding, emit func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	w := newAsyncWriter([]io.Writer{buf}, 1024)
	emit(slog.New(newLineHandler(handlerOptions{level: slog.LevelDebug, out: w, encoding: enc})))
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestKVLineStartsWithOrderedKeys(t *testing.T) {
	ctx := WithRID(context.Background(), BuildRID(42, 9, 7))
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := captureLine(t, encodingKV, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", "tg.router"), slog.LevelInfo, "handler.handled",
			slog.String("status", "OK"),
			slog.Duration("duration", 1500*time.Microsecond),
		)
	})

	want := []string{"ts=", "level=INFO", "component=tg.router", "event=handler.handled", "status=ok", "rid=16.9.7"}
	tokens := strings.Split(line, " ")
	if len(tokens) < len(want) {
		t.Fatalf("short line: %s", line)
	}
	for i, prefix := range want {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %q, want prefix %q (line %s)", i, tokens[i], prefix, line)
		}
	}
	if !strings.Contains(line, "duration_ms=2") || !strings.Contains(line, "chat_id=9") {
		t.Fatalf("missing fields: %s", line)
	}
}

func TestJSONLineKeepsFullRIDAndFlattensGroups(t *testing.T) {
	ctx := WithHandler(WithRID(context.Background(), "11:33:22"), "add_task")

	line := captureLine(t, encodingJSON, func(l *slog.Logger) {
		l.WithGroup("db").LogAttrs(ctx, slog.LevelError, "",
			slog.String("event", "query.failed"),
			slog.Any("err", errors.New("boom")),
			slog.String("empty", ""),
		)
	})

	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("invalid json %q: %v", line, err)
	}
	if !strings.HasPrefix(line, `{"ts":`) {
		t.Fatalf("ts must come first: %s", line)
	}
	checks := map[string]any{
		"level":     "ERROR",
		"component": "app",
		"db.event":  "query.failed",
		"event":     "unknown",
		"db.err":    "boom",
		"rid":       "b.x.m",
		"rid_full":  "11:33:22",
		"handler":   "add_task",
	}
	for k, v := range checks {
		if got[k] != v {
			t.Fatalf("%s = %v, want %v (line %s)", k, got[k], v, line)
		}
	}
	if _, ok := got["db.empty"]; ok {
		t.Fatalf("empty values must be dropped: %s", line)
	}
}

func TestOutcomeOutsideVocabularyIsDropped(t *testing.T) {
	line := captureLine(t, encodingKV, func(l *slog.Logger) {
		l.Info("x", slog.String("outcome", "weird"), slog.String("status", "custom"))
	})
	if strings.Contains(line, "outcome=") {
		t.Fatalf("unexpected outcome: %s", line)
	}
	if !strings.Contains(line, "status=custom") || !strings.Contains(line, "event=x") {
		t.Fatalf("unexpected line: %s", line)
	}
}

func TestSampler(t *testing.T) {
	var s sampler
	s.set(2, 5)
	passed := 0
	for i := 0; i < 10; i++ {
		if s.allow() {
			passed++
		}
	}
	if passed != 4 {
		t.Fatalf("passed = %d, want 4", passed)
	}
	s.set(0, 0)
	if !s.allow() {
		t.Fatal("disabled sampler must pass everything")
	}

	cases := map[string][3]int{"1/10": {1, 10, 1}, "20": {1, 20, 1}, "0": {0, 0, 1}, "x/y": {0, 0, 0}, "": {0, 0, 0}}
	for spec, want := range cases {
		k, e, ok := parseSampleSpec(spec)
		if k != want[0] || e != want[1] || ok != (want[2] == 1) {
			t.Fatalf("parseSampleSpec(%q) = %d,%d,%v", spec, k, e, ok)
		}
	}
}

func TestSanitizeLimitAndCompactRID(t *testing.T) {
	if got := SanitizeLimit("при\x00вет​ мир", 6); got != "привет" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("CompactRID = %q", got)
	}
	if s, cut := SummarizeStrings([]string{"a", "b", "c"}, 2); s != "a, b" || !cut {
		t.Fatalf("SummarizeStrings = %q %v", s, cut)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	s := settingsFrom(nil)
	if s.encoding != encodingJSON || s.level != slog.LevelInfo || s.sampleEvery != 50 {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	cfg := &coreconfig.Config{}
	cfg.Logging.Profile = "Dev"
	cfg.Logging.Level = "debug"
	cfg.Logging.KeysOrder = "level, event"
	cfg.Logging.DebugSample = "0"
	cfg.Logging.Dir = "logs"
	cfg.Logging.BotFile = "bot.log"
	s = settingsFrom(cfg)
	if s.encoding != encodingKV || s.level != slog.LevelDebug || s.sampleKeep != 0 {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if len(s.order) != 2 || s.order[1] != "event" || s.file == "" {
		t.Fatalf("unexpected order/file: %+v", s)
	}
}
