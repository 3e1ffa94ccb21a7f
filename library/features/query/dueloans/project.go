package dueloans

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project implements the query logic of the overdue sweep.
//
// Query Logic:
//
//	GIVEN: All loan lifecycle events
//	WHEN: DueLoans query is executed
//	THEN: DueLoans is returned, oldest loan first
//	INCLUDES: active loans with a due date before Now
//	EXCLUDES: returned and already overdue loans
func Project(history core.DomainEvents, query Query) (DueLoans, error) {
	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return DueLoans{}, err
	}

	loans := ledger.DueForOverdue(query.Now)

	return DueLoans{
		Loans: loans,
		Count: len(loans),
	}, nil
}

// BuildEventFilter creates the filter for querying all loan lifecycle events.
func BuildEventFilter(_ Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		Finalize()
}
