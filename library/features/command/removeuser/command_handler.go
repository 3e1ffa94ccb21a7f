package removeuser

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// CommandHandler runs the Query -> Decide -> Append cycle for the command, retried on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	filter := BuildEventFilter(command.UserID)

	return shell.HandleWithRetry(ctx, func(ctx context.Context) (core.DecisionResult, error) {
		return shell.ExecuteDecision(ctx, h.eventStore, filter, func(history core.DomainEvents) core.DecisionResult {
			return Decide(history, command)
		})
	}, h.retryOptions...)
}
