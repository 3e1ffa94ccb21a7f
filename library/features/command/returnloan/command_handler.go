package returnloan

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// CommandHandler locates the loan's book and then runs the Query -> Decide -> Append cycle
// over the book's events, retried on concurrency conflicts.
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
// A loan never moves to another book, so the lookup runs once, outside the retried cycle.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	bookID, err := h.bookOfLoan(ctx, command.LoanID)
	if err != nil {
		return shell.HandlerResult{}, err
	}

	filter := BuildEventFilter(bookID)

	return shell.HandleWithRetry(ctx, func(ctx context.Context) (core.DecisionResult, error) {
		return shell.ExecuteDecision(ctx, h.eventStore, filter, func(history core.DomainEvents) core.DecisionResult {
			return Decide(history, command)
		})
	}, h.retryOptions...)
}

func (h CommandHandler) bookOfLoan(ctx context.Context, loanID core.LoanIDString) (core.BookIDString, error) {
	history, _, err := shell.QueryHistory(ctx, h.eventStore, BuildLoanLookupFilter(loanID))
	if err != nil {
		return "", err
	}

	for _, event := range history {
		if lent, ok := event.(core.BookCopyLentToUser); ok {
			return lent.BookID, nil
		}
	}

	return "", fmt.Errorf("%w: loan %s", core.ErrNotFound, loanID)
}
