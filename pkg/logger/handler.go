package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const (
	lineBufferCapacity = 256
	timestampLayout    = "2006-01-02T15:04:05-07:00"
)

// LineHandler is a slog.Handler writing one "timestamp LEVEL msg key=value"
// line per record. Handlers derived through WithAttrs and WithGroup share the
// writer and its lock.
type LineHandler struct {
	out    *syncWriter
	level  slog.Leveler
	prefix string
	attrs  []byte
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineHandler creates a handler writing records at or above level to w.
func NewLineHandler(w io.Writer, level Level) *LineHandler {
	return &LineHandler{
		out:   &syncWriter{w: w},
		level: level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a record.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, lineBufferCapacity)
	buf = r.Time.Local().AppendFormat(buf, timestampLayout)
	buf = append(buf, ' ')
	buf = append(buf, levelName(r.Level)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, a)

		return true
	})

	buf = append(buf, '\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	_, err := h.out.w.Write(buf)

	return err
}

// WithAttrs returns a handler that always writes the given attributes.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	pre := append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		pre = appendAttr(pre, h.prefix, a)
	}

	return &LineHandler{out: h.out, level: h.level, prefix: h.prefix, attrs: pre}
}

// WithGroup returns a handler that prefixes keys with the group name.
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &LineHandler{out: h.out, level: h.level, prefix: h.prefix + name + ".", attrs: h.attrs}
}

// Close closes the underlying writer if it implements io.Closer.
func (h *LineHandler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if closer, ok := h.out.w.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return LevelError.String()
	case l >= slog.LevelInfo:
		return LevelInfo.String()
	default:
		return LevelDebug.String()
	}
}

func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, prefix+a.Key+".", ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\r\n\"\\") {
		return strconv.AppendQuote(buf, val)
	}

	return append(buf, val...)
}
