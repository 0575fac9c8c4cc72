// Package log builds the tool's slog loggers. Credential material for the
// remote channel flows through command arguments and session context, so
// every handler is wrapped in a redaction layer before anything reaches an
// output stream.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// sensitiveKeys marks attribute keys whose values must never be logged.
// Matching is a case-insensitive substring check.
var sensitiveKeys = []string{
	"password",
	"pass",
	"secret",
	"token",
	"cred",
	"auth",
	"key",
}

const redacted = "[REDACTED]"

// ParseLevel maps a CLI level name to a slog.Level. An empty or unknown
// name means no logging at all, following the convention that admin tools
// stay quiet unless asked.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// New returns a text logger at the given level writing to w, with
// redaction applied. An unknown level name disables logging.
func New(w io.Writer, levelName string) *slog.Logger {
	level, ok := ParseLevel(levelName)
	if !ok {
		return slog.New(slog.DiscardHandler)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactingHandler(handler))
}

// RedactingHandler is a slog.Handler that replaces sensitive attribute
// values before forwarding to the next handler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next with redaction.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redactAttr(a))
		return true
	})

	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	clean.AddAttrs(attrs...)
	return h.next.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]any, len(group))
		for i, attr := range group {
			clean[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, clean...)
	}

	lower := strings.ToLower(a.Key)
	for _, sens := range sensitiveKeys {
		if strings.Contains(lower, sens) {
			return slog.String(a.Key, redacted)
		}
	}
	return a
}
