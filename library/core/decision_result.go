package core

// DecisionResult is the outcome of a Decide function.
//
// Construct it only with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult struct {
	Outcome string
	Events  DomainEvents // empty for idempotent and error decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the requested state is already reached, nothing has to be appended.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the events to append.
func SuccessDecision(events ...DomainEvent) DecisionResult {
	return DecisionResult{Outcome: successOutcome, Events: events}
}

// ErrorDecision carries a business rule violation.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{Outcome: errorOutcome, Err: err}
}

// HasEventToAppend returns true if there are events to append to the event store.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome == successOutcome && len(r.Events) > 0
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}

// IsIdempotent reports whether nothing had to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}
