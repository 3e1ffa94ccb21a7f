package oteladapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-lending-go/eventstore/oteladapters"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	_, span := collector.StartSpan(t.Context(), "eventstore.query", map[string]string{"operation": "query"})
	span.AddAttribute("event_count", "3")
	collector.FinishSpan(span, "success", map[string]string{"max_sequence": "17"})

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "eventstore.query", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("operation", "query"))
	assert.Contains(t, ended[0].Attributes(), attribute.String("event_count", "3"))
	assert.Contains(t, ended[0].Attributes(), attribute.String("max_sequence", "17"))
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	tests := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "idempotent", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Error},
		{status: "timeout", expectedCode: codes.Error},
		{status: "concurrency_conflict", expectedCode: codes.Error},
		{status: "something_else", expectedCode: codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))
			_, span := collector.StartSpan(t.Context(), "op", nil)

			// act
			collector.FinishSpan(span, tc.status, nil)

			// assert
			require.Len(t, recorder.Ended(), 1)
			assert.Equal(t, tc.expectedCode, recorder.Ended()[0].Status().Code)
		})
	}
}

func Test_TracingCollector_ChildSpanSharesTrace(t *testing.T) {
	// arrange
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	// act
	parentCtx, parent := collector.StartSpan(t.Context(), "commandhandler.handle", nil)
	_, child := collector.StartSpan(parentCtx, "eventstore.append", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().TraceID(), ended[0].SpanContext().TraceID())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}
