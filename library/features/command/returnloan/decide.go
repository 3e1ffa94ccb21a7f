package returnloan

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether a loan can be returned.
//
// Business Rules:
//
//	GIVEN: An active or overdue loan with LoanID
//	WHEN: ReturnLoan command is received
//	THEN: BookCopyReturnedByUser event is generated, one copy of the book is available again
//	ERROR: NotFound if the loan is unknown
//	ERROR: AlreadyReturned if the loan was returned before
//	ERROR: Overflow if all copies of the book are already on the shelf, the history is broken then
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	event, err := ledger.MarkReturned(command.LoanID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if err = catalog.IncrementAvailability(event.BookID); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying all events of the loan's book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

// BuildLoanLookupFilter creates the filter for finding the event that opened the loan.
func BuildLoanLookupFilter(loanID core.LoanIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookCopyLentToUserEventType).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID)).
		Finalize()
}
