package config

import (
	"io"
	"log/slog"

	"github.com/AntonStoeckl/library-lending-go/eventstore/oteladapters"
)

// NewLogger builds the process logger. Records carry trace_id and span_id
// whenever they are logged with a context holding a span.
func NewLogger(o Observability, w io.Writer) (*slog.Logger, error) {
	level, err := o.Level()
	if err != nil {
		return nil, err
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if o.LogFormat == "text" {
		handler = slog.NewTextHandler(w, handlerOptions)
	} else {
		handler = slog.NewJSONHandler(w, handlerOptions)
	}

	return slog.New(oteladapters.NewTraceContextHandler(handler)).With("service", o.ServiceName), nil
}
