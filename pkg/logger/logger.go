// Package logger provides slog handlers that enrich records with request-scoped values.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

// Extractor returns attributes derived from the context of a log call.
type Extractor func(ctx context.Context) []slog.Attr

// ContextHandler wraps a slog.Handler and appends the attributes produced by its extractors.
type ContextHandler struct {
	slog.Handler
	extractors []Extractor
}

// NewContextHandler creates a ContextHandler that adds trace and request identifiers,
// followed by any extra extractors.
func NewContextHandler(handler slog.Handler, extra ...Extractor) *ContextHandler {
	extractors := append([]Extractor{TraceID, RequestID}, extra...)
	return &ContextHandler{Handler: handler, extractors: extractors}
}

// Handle adds context attributes to the record and forwards it.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attrs := extract(ctx); len(attrs) > 0 {
			r.AddAttrs(attrs...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(group), extractors: h.extractors}
}

// TraceID extracts the id of the active OpenTelemetry span.
func TraceID(ctx context.Context) []slog.Attr {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{slog.String("trace_id", sc.TraceID().String())}
}

// RequestID extracts the chi request id.
func RequestID(ctx context.Context) []slog.Attr {
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		return nil
	}
	return []slog.Attr{slog.String("request_id", reqID)}
}
