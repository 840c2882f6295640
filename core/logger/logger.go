// Package logger provides the process-wide structured logger: a slog handler
// writing flat JSON or key=value lines through an async writer, component
// loggers, and context helpers carrying update correlation data.
package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/planbot/core/buildinfo"
	coreconfig "github.com/m3rciful/planbot/core/config"
)

var (
	initOnce sync.Once
	stopMu   sync.Mutex
	stopped  bool

	out     *asyncWriter
	closers []io.Closer

	level       slog.LevelVar
	debugSample sampler
	traceAll    bool

	// L is the base logger; the component loggers below derive from it.
	L *slog.Logger

	// DB logs connection and pool events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs schema migrations.
	MIG *slog.Logger
	// TWire logs route and command registration.
	TWire *slog.Logger
)

func init() {
	debugSample.set(1, 50)
	setBase(slog.Default())
}

func setBase(l *slog.Logger) {
	L = l
	DB = l.With("component", "db")
	TG = l.With("component", "tg")
	MIG = l.With("component", "db.migrate")
	TWire = l.With("component", "tg.wire")
}

// settings is the logging configuration after defaults are applied.
type settings struct {
	encoding    encoding
	level       slog.Level
	order       []string
	sampleKeep  int
	sampleEvery int
	file        string
	profile     string
}

func settingsFrom(cfg *coreconfig.Config) settings {
	s := settings{
		encoding:    encodingJSON,
		level:       slog.LevelInfo,
		order:       slices.Clone(defaultKeyOrder),
		sampleKeep:  1,
		sampleEvery: 50,
		profile:     "prod",
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		s.profile = p
	}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.encoding = encodingKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.encoding = encodingKV
		}
	}
	s.level = parseLevel(lc.Level)
	if raw := strings.TrimSpace(lc.KeysOrder); raw != "" && raw != "default" {
		var order []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
		if len(order) > 0 {
			s.order = order
		}
	}
	if keep, every, ok := parseSampleSpec(lc.DebugSample); ok {
		s.sampleKeep, s.sampleEvery = keep, every
	}
	if dir, name := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile); dir != "" && name != "" {
		s.file = filepath.Join(dir, name)
	}
	return s
}

// InitLogger installs the configured logger as slog's default. Only the
// first call has an effect.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		s := settingsFrom(cfg)
		level.Set(s.level)
		debugSample.set(s.sampleKeep, s.sampleEvery)
		traceAll = envFlag("LOG_TRACE") || envFlag("TRACE")

		sinks := []io.Writer{os.Stdout}
		if s.file != "" {
			f, ferr := openLogFile(s.file)
			if ferr != nil {
				// Keep logging to stdout rather than refusing to start.
				log.Printf("logger: %v", ferr)
			} else {
				sinks = append(sinks, f)
				closers = append(closers, f)
			}
		}
		out = newAsyncWriter(sinks, 64<<10)

		base := slog.New(newLineHandler(handlerOptions{
			level:    &level,
			out:      out,
			encoding: s.encoding,
			order:    s.order,
		}))
		slog.SetDefault(base)
		setBase(base)
		logStartup(cfg, s)
	})
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func logStartup(cfg *coreconfig.Config, s settings) {
	attrs := []slog.Attr{
		slog.String("component", "app"),
		slog.String("go_version", runtime.Version()),
		slog.String("build_version", buildinfo.Version),
		slog.String("build_commit", buildinfo.Commit),
		slog.String("build_time", buildinfo.Date),
		slog.String("cfg_profile", s.profile),
	}
	if cfg != nil {
		attrs = append(attrs, slog.String("run_mode", cfg.Telegram.RunMode))
	}
	LogEvent(context.Background(), L, slog.LevelInfo, "startup", attrs...)
}

// Shutdown flushes pending lines and closes log files. Later calls are no-ops.
func Shutdown() error {
	stopMu.Lock()
	defer stopMu.Unlock()
	if stopped {
		return nil
	}
	stopped = true

	var errs []error
	if out != nil {
		errs = append(errs, out.Flush(), out.Close())
	}
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// LogEvent writes one record with the event attribute set first. A nil
// logger falls back to the one stored in ctx.
func LogEvent(ctx context.Context, logg *slog.Logger, lvl slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, lvl, "", attrs...)
}

// Component returns the base logger tagged with component name.
func Component(name string) *slog.Logger {
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Debug logs a debug event for component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug line should be
// written. LOG_TRACE=1 disables sampling.
func ShouldSampleDebug() bool {
	if level.Level() > slog.LevelDebug {
		return false
	}
	return traceAll || debugSample.allow()
}

func envFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
