package redact

import (
	"context"
	"log/slog"
)

// Handler is a slog.Handler that redacts every record before delegating.
// Wrapping the handler rather than individual logging methods means every
// current and future method of the facility is covered: all of them funnel
// through Handle.
type Handler struct {
	inner slog.Handler
}

// NewHandler wraps inner with redaction.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// Enabled delegates to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the message and every attribute, then delegates.
func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, Text(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs redacts the bound attributes before delegating.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &Handler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup delegates, keeping redaction on the outside.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if activeClassifier.shouldRedact(a.Key) {
		return slog.String(a.Key, Placeholder)
	}

	// A LogValuer resolves lazily; force resolution here so the secret it
	// yields is scrubbed instead of the inner handler resolving it after
	// redaction already ran.
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Text(a.Value.String()))
	case slog.KindGroup:
		members := a.Value.Group()
		redacted := make([]any, 0, len(members))
		for _, m := range members {
			redacted = append(redacted, redactAttr(m))
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindAny:
		return slog.Any(a.Key, Value(a.Value.Any()))
	default:
		// Numeric, bool, time and duration values carry no secret shape.
		return a
	}
}

var _ slog.Handler = (*Handler)(nil)
