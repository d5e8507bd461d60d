package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	consoleTimeFormat = "15:04:05.000"
	// Console lines show a key prefix; JSON output keeps the full digest.
	consoleKeyLength = 12
)

// consoleHandler writes one human-readable line per record:
//
//	15:04:05.000 WARN dedup: malformed input skipped file=x.json error=... run_id=...
//
// The component prefixes the message and run_id always comes last.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	prefix    string
	attrs     []slog.Attr
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := consoleLine{}
	for _, attr := range h.attrs {
		line.add("", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		line.add(h.prefix, attr)
		return true
	})

	var b strings.Builder
	b.WriteString(ts.Format(consoleTimeFormat))
	b.WriteByte(' ')
	b.WriteString(levelLabel(record.Level))
	b.WriteByte(' ')
	if line.component != "" {
		b.WriteString(line.component)
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range line.fields {
		writeField(&b, f)
	}
	for _, f := range line.trailing {
		writeField(&b, f)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs bakes the current group prefix into the stored keys.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		if h.prefix != "" {
			attr.Key = h.prefix + attr.Key
		}
		next.attrs = append(next.attrs, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

type consoleField struct {
	key   string
	value slog.Value
}

type consoleLine struct {
	component string
	fields    []consoleField
	trailing  []consoleField
}

func (l *consoleLine) add(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := prefix
		if attr.Key != "" {
			group = prefix + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			l.add(group, member)
		}
		return
	}

	key := prefix + attr.Key
	switch key {
	case FieldComponent:
		if l.component == "" {
			l.component = attr.Value.String()
		}
	case FieldRunID:
		l.trailing = append(l.trailing, consoleField{key: key, value: attr.Value})
	case FieldKey:
		l.fields = append(l.fields, consoleField{key: key, value: slog.StringValue(shortKey(attr.Value.String()))})
	default:
		l.fields = append(l.fields, consoleField{key: key, value: attr.Value})
	}
}

func shortKey(key string) string {
	if len(key) <= consoleKeyLength {
		return key
	}
	return key[:consoleKeyLength]
}

func writeField(b *strings.Builder, f consoleField) {
	if f.key == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(f.key)
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(consoleValue(f.value)))
}

func consoleValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
