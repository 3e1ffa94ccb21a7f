// Package oteladapters implements the observability interfaces of the eventstore package with OpenTelemetry:
// TracingCollector on top of a trace.Tracer, MetricsCollector on top of a metric.Meter and
// SlogBridgeLogger as the eventstore.ContextualLogger, either via the otelslog bridge or any slog.Handler.
// TraceContextHandler adds trace and span ids to records of a plain slog.Handler.
package oteladapters
