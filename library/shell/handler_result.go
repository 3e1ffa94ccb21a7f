package shell

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome and the retry metadata without coupling the handler
// to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates that the requested state was already reached, nothing was appended.
	Idempotent bool

	// Events are the domain events that were appended.
	Events core.DomainEvents

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	LastErrorType string

	// RetriesExhausted indicates that max attempts were reached with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for operations that appended events.
func NewSuccessResult(events core.DomainEvents, retryMetrics RetryMetrics) HandlerResult {
	result := newResult(retryMetrics)
	result.Events = events

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := newResult(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations, it still reports the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(retryMetrics)
}

func newResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// FirstEventOf returns the first appended event of type E.
func FirstEventOf[E core.DomainEvent](result HandlerResult) (E, bool) {
	for _, event := range result.Events {
		if typed, ok := event.(E); ok {
			return typed, true
		}
	}

	var zero E

	return zero, false
}
