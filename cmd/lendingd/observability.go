package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-lending-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/eventstore/promadapters"
	"github.com/AntonStoeckl/library-lending-go/library/lending"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shell/config"
)

const instrumentationName = "github.com/AntonStoeckl/library-lending-go"

// observabilityConfig bundles the collectors handed to the event store and the command and query handlers.
type observabilityConfig struct {
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	metricsHandler   http.Handler
}

func newObservabilityConfig(o config.Observability, logger *slog.Logger) observabilityConfig {
	obs := observabilityConfig{
		tracingCollector: oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
	}

	// With an OTLP endpoint the handler and event store logs go to the collector via the otelslog bridge.
	if o.OTLPEndpoint != "" {
		obs.contextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
	} else {
		obs.contextualLogger = logger
	}

	switch o.MetricsBackend {
	case config.MetricsPrometheus:
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		obs.metricsCollector = promadapters.NewMetricsCollector(registry)
		obs.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	case config.MetricsOTel:
		obs.metricsCollector = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
	}

	return obs
}

func (o observabilityConfig) eventStoreOptions() []postgresengine.Option {
	options := []postgresengine.Option{
		postgresengine.WithContextualLogger(o.contextualLogger),
		postgresengine.WithTracing(o.tracingCollector),
	}

	if o.metricsCollector != nil {
		options = append(options, postgresengine.WithMetrics(o.metricsCollector))
	}

	return options
}

func (o observabilityConfig) lendingOptions() []lending.Option {
	options := []lending.Option{
		lending.WithContextualLogger(o.contextualLogger),
		lending.WithTracing(o.tracingCollector),
	}

	if o.metricsCollector != nil {
		options = append(options, lending.WithMetrics(o.metricsCollector))
	}

	return options
}
