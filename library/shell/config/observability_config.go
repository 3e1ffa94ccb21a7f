package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const metricExportInterval = 15 * time.Second

// ObservabilityProviders holds the OpenTelemetry providers of the process.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Resource       *resource.Resource
}

// NewObservabilityProviders creates the OpenTelemetry providers and installs them globally.
// Spans, log records of the otelslog bridge and, with the otel metrics backend, metrics
// are exported via OTLP/HTTP when an endpoint is configured.
func NewObservabilityProviders(ctx context.Context, o Observability) (*ObservabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(o.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	traceOptions := []trace.TracerProviderOption{trace.WithResource(res)}
	meterOptions := []metric.Option{metric.WithResource(res)}
	loggerOptions := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}

	if o.OTLPEndpoint != "" {
		traceExporter, exporterErr := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(o.OTLPEndpoint))
		if exporterErr != nil {
			return nil, exporterErr
		}

		traceOptions = append(traceOptions, trace.WithBatcher(traceExporter))

		logExporter, exporterErr := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(o.OTLPEndpoint))
		if exporterErr != nil {
			return nil, exporterErr
		}

		loggerOptions = append(loggerOptions, sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)))

		if o.MetricsBackend == MetricsOTel {
			metricExporter, metricErr := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(o.OTLPEndpoint))
			if metricErr != nil {
				return nil, metricErr
			}

			meterOptions = append(meterOptions, metric.WithReader(
				metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportInterval)),
			))
		}
	}

	tracerProvider := trace.NewTracerProvider(traceOptions...)
	meterProvider := metric.NewMeterProvider(meterOptions...)
	loggerProvider := sdklog.NewLoggerProvider(loggerOptions...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	global.SetLoggerProvider(loggerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &ObservabilityProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		LoggerProvider: loggerProvider,
		Resource:       res,
	}, nil
}

// Shutdown flushes and stops all providers.
func (p *ObservabilityProviders) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
		p.LoggerProvider.Shutdown(ctx),
	)
}
