package markoverdue

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether a loan becomes overdue.
//
// Business Rules:
//
//	GIVEN: A loan with LoanID
//	WHEN: MarkOverdue command is received
//	THEN: LoanMarkedOverdue event is generated if the loan is active and its due date has passed
//	ERROR: NotFound if the loan is unknown
//	IDEMPOTENCY: Overdue, returned and not yet due loans stay unchanged, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	event, changed, err := ledger.MarkOverdue(command.LoanID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !changed {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying the lifecycle events of the loan.
func BuildEventFilter(loanID core.LoanIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID)).
		Finalize()
}
