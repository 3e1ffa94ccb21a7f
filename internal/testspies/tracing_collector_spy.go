package testspies

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// SpanSpy is the SpanContext handed out by TracingCollectorSpy.
type SpanSpy struct {
	mu         sync.Mutex
	Name       string
	status     string
	finished   bool
	attributes map[string]string
}

func (s *SpanSpy) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

func (s *SpanSpy) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attributes[key] = value
}

// Status returns the last status set on the span.
func (s *SpanSpy) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Finished reports whether FinishSpan was called for this span.
func (s *SpanSpy) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finished
}

// Attributes returns a copy of the start, intermediate and finish attributes.
func (s *SpanSpy) Attributes() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.attributes)
}

// TracingCollectorSpy captures spans in the order they were started.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpanSpy
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (c *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	span := &SpanSpy{Name: name, attributes: maps.Clone(attrs)}
	if span.attributes == nil {
		span.attributes = make(map[string]string)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.spans = append(c.spans, span)

	return ctx, span
}

func (c *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpanSpy)
	if !ok {
		return
	}

	span.mu.Lock()
	defer span.mu.Unlock()

	span.status = status
	span.finished = true
	maps.Copy(span.attributes, attrs)
}

// Spans returns the captured spans with the given name.
func (c *TracingCollectorSpy) Spans(name string) []*SpanSpy {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*SpanSpy, 0)
	for _, span := range c.spans {
		if span.Name == name {
			result = append(result, span)
		}
	}

	return result
}
