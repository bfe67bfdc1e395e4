package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Mode selects the handler style used when constructing a logger.
type Mode int

const (
	// ModeCLI renders records in a terse human-readable format.
	ModeCLI Mode = iota
	// ModeJSON renders records as structured JSON.
	ModeJSON
)

// New constructs a logger targeting the given writer with the requested mode.
// A nil level defaults to slog.LevelInfo.
func New(mode Mode, w io.Writer, level slog.Leveler) *slog.Logger {
	if level == nil {
		level = slog.LevelInfo
	}
	if mode == ModeJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(&cliHandler{w: w, level: level})
}

// Renders records as "LEVEL message key=value ...", one line per record.
//
// Timestamps are omitted: the CLI runs interactively and the surrounding
// tooling adds its own timestamps when output is captured.
type cliHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr

	mu sync.Mutex
}

func (h *cliHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *cliHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(levelLabel(record.Level))
	b.WriteByte(' ')
	b.WriteString(record.Message)

	for _, attr := range h.attrs {
		writeAttr(&b, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *cliHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &cliHandler{w: h.w, level: h.level, attrs: merged}
}

// Groups are flattened; the CLI output has no nesting to express them.
func (h *cliHandler) WithGroup(string) slog.Handler {
	return h
}

func writeAttr(b *strings.Builder, attr slog.Attr) {
	v := attr.Value.Resolve()
	b.WriteByte(' ')
	b.WriteString(attr.Key)
	b.WriteByte('=')
	if err, ok := v.Any().(error); ok && err != nil {
		b.WriteString(err.Error())
		return
	}
	fmt.Fprintf(b, "%v", v.Any())
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
