package logsink

import (
	"context"
	"log/slog"
)

// handler adapts a Sink to slog.Handler so the rest of the agent can use a
// single *slog.Logger regardless of how many sinks are configured.
type handler struct {
	sink  Sink
	attrs []slog.Attr
	group string
}

// NewHandler wraps sink as a slog.Handler.
func NewHandler(sink Sink) slog.Handler {
	return &handler{sink: sink}
}

func (h *handler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *handler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]any, 0, 2*(len(h.attrs)+record.NumAttrs()))
	for _, a := range h.attrs {
		fields = append(fields, h.prefixed(a.Key), a.Value.Any())
	}
	record.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.prefixed(a.Key), a.Value.Any())
		return true
	})
	h.sink.Emit(record.Level, record.Message, fields...)
	return nil
}

func (h *handler) prefixed(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &handler{sink: h.sink, group: h.group}
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return next
}

func (h *handler) WithGroup(name string) slog.Handler {
	next := &handler{sink: h.sink, attrs: h.attrs, group: name}
	if h.group != "" {
		next.group = h.group + "." + name
	}
	return next
}
