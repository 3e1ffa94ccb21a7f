package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// DecideFunc is a pure decision over the queried history.
type DecideFunc func(history core.DomainEvents) core.DecisionResult

// AttemptFunc runs one query -> decide -> append cycle.
type AttemptFunc func(ctx context.Context) (core.DecisionResult, error)

// QueryHistory queries the events matching the filter under strong consistency and unmarshals them.
func QueryHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(eventstore.WithStrongConsistency(ctx), filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// ExecuteDecision runs one cycle: Query -> Unmarshal -> Decide -> Append.
// The append is conditional on the filter's max sequence number seen by the query, so it fails with
// eventstore.ErrConcurrencyConflict when another writer changed the same consistency boundary.
func ExecuteDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	decide DecideFunc,
) (core.DecisionResult, error) {

	history, maxSequenceNumber, err := QueryHistory(ctx, eventStore, filter)
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := decide(history)

	if err = result.HasError(); err != nil {
		return result, err
	}

	if !result.HasEventToAppend() {
		return result, nil
	}

	storableEvents, err := StorableEventsFrom(ctx, result.Events)
	if err != nil {
		return core.DecisionResult{}, err
	}

	if err = eventStore.Append(eventstore.WithStrongConsistency(ctx), filter, maxSequenceNumber, storableEvents...); err != nil {
		return core.DecisionResult{}, err
	}

	return result, nil
}

// HandleWithRetry runs the attempt with exponential backoff on concurrency conflicts
// and turns the final decision into a HandlerResult.
func HandleWithRetry(ctx context.Context, attempt AttemptFunc, options ...RetryOption) (HandlerResult, error) {
	var decision core.DecisionResult

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var attemptErr error
		decision, attemptErr = attempt(retryCtx)

		return attemptErr
	}, options...)

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	if decision.IsIdempotent() {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(decision.Events, retryMetrics), nil
}
