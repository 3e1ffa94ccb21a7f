package loandetails

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project returns the loan in its current state, core.ErrNotFound if it is unknown.
func Project(history core.DomainEvents, query Query) (core.Loan, error) {
	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return core.Loan{}, err
	}

	return ledger.Loan(query.LoanID)
}

// BuildEventFilter creates the filter for querying the lifecycle events of the loan.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", query.LoanID)).
		Finalize()
}
