package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

type encoding int

const (
	encodingJSON encoding = iota
	encodingKV
)

const tsLayout = "2006-01-02T15:04:05.000Z07:00"

type handlerOptions struct {
	level    slog.Leveler
	out      *asyncWriter
	encoding encoding
	order    []string
}

// lineHandler renders every record as one flat line: either a JSON object or
// key=value pairs. Groups are flattened into dotted keys and durations are
// reported in milliseconds.
type lineHandler struct {
	opts   *handlerOptions
	preset []slog.Attr
	prefix string
}

func newLineHandler(opts handlerOptions) *lineHandler {
	if opts.level == nil {
		opts.level = slog.LevelInfo
	}
	if len(opts.order) == 0 {
		opts.order = slices.Clone(defaultKeyOrder)
	}
	return &lineHandler{opts: &opts}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

func (h *lineHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.opts.out == nil {
		return errors.New("logger: writer not initialized")
	}
	ts := r.Time.UTC()
	f := fields{
		"ts":    ts.Truncate(time.Millisecond).Format(tsLayout),
		"level": levelName(r.Level),
	}
	if h.opts.encoding == encodingJSON {
		f["ts_unix_nano"] = ts.UnixNano()
	}
	for _, a := range h.preset {
		f.add(h.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		f.add(h.prefix, a)
		return true
	})
	for _, a := range contextAttrs(ctx) {
		f.setDefault(a.Key, a.Value.Any())
	}
	f.finish(r.Message, h.opts.encoding == encodingJSON)

	var line []byte
	if h.opts.encoding == encodingJSON {
		var err error
		if line, err = f.json(h.opts.order); err != nil {
			return err
		}
	} else {
		line = f.kv(h.opts.order)
	}
	return h.opts.out.Write(append(line, '\n'))
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.preset = append(slices.Clone(h.preset), attrs...)
	return &c
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = joinKey(h.prefix, name)
	return &c
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}

// fields is the flattened content of one record.
type fields map[string]any

func (f fields) add(prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	key := joinKey(prefix, a.Key)
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, val, ok := plain(key, v); ok {
		f[k] = val
	}
}

func (f fields) setDefault(key string, val any) {
	if _, ok := f[key]; !ok {
		f[key] = val
	}
}

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// finish applies the line conventions: compact rid, event and component
// defaults, vocabulary checks and dropping empty values.
func (f fields) finish(msg string, keepFullRID bool) {
	if rid := f.str("rid"); rid != "" {
		if c := CompactRID(rid); c != rid {
			if keepFullRID {
				f.setDefault("rid_full", rid)
			}
			f["rid"] = c
		}
	}
	if f.str("event") == "" {
		f["event"] = orDefault(msg, "unknown")
	}
	if f.str("component") == "" {
		f["component"] = "app"
	}
	if s := strings.ToLower(f.str("status")); s != "" {
		f["status"] = s
	}
	if o := strings.ToLower(f.str("outcome")); o != "" {
		if _, ok := outcomeValues[o]; ok {
			f["outcome"] = o
		} else {
			delete(f, "outcome")
		}
	}
	for k, v := range f {
		if v == nil || v == "" {
			delete(f, k)
		}
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// plain converts a resolved slog value into something both encoders print
// directly. Durations move to a *_ms key.
func plain(key string, v slog.Value) (string, any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return key, v.Bool(), true
	case slog.KindInt64:
		return key, v.Int64(), true
	case slog.KindUint64:
		return key, v.Uint64(), true
	case slog.KindFloat64:
		return key, v.Float64(), true
	case slog.KindDuration:
		return msKey(key), RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return key, nil, false
	case time.Duration:
		return msKey(key), RoundMS(x).Milliseconds(), true
	case error:
		return key, x.Error(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

func msKey(key string) string {
	if strings.HasSuffix(key, "_ms") {
		return key
	}
	return key + "_ms"
}

// keys returns the configured order first, then the remaining keys sorted.
func (f fields) keys(order []string) []string {
	out := make([]string, 0, len(f))
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := f[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(f)-len(out))
	for k := range f {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func (f fields) json(order []string) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range f.keys(order) {
		val, err := json.Marshal(f[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func (f fields) kv(order []string) []byte {
	var b strings.Builder
	for i, k := range f.keys(order) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		s := fmt.Sprint(f[k])
		if strings.IndexFunc(s, needsQuote) >= 0 {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	}
	return []byte(b.String())
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}
