package lending

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, tests use it to control due dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithRetryOptions configures the retries of all command handlers on concurrency conflicts.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(s *Service) {
		s.retryOptions = opts
	}
}

// WithMetrics instruments all handlers with the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

// WithTracing instruments all handlers with the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(s *Service) {
		s.tracing = collector
	}
}

// WithLogger sets the logger of the handler wrappers.
func WithLogger(logger shell.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithContextualLogger sets the context-aware logger of the handler wrappers, it takes precedence over the logger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Service) {
		s.contextualLogger = logger
	}
}
