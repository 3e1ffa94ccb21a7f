package requestloan

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether a book copy can be lent to a user.
//
// Business Rules:
//
//	GIVEN: A registered user with the role student or teacher and a catalog book
//	WHEN: RequestLoan command is received
//	THEN: BookCopyLentToUser event is generated, due after the loan period (default 14 days)
//	ERROR: Validation if the loan period is not between 1 and 60 days
//	ERROR: NotFound if the user or the book is unknown
//	ERROR: NotPermitted if the user's role may not borrow
//	ERROR: NotAvailable if no copy is on the shelf
//	ERROR: DuplicateActiveLoan if the user still holds a copy of the book, overdue loans included
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	periodDays, err := core.NormalizeLoanPeriod(command.PeriodDays)
	if err != nil {
		return core.ErrorDecision(err)
	}

	user, err := core.ProjectUserRegistry(history).User(command.UserID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !user.Role.CanBorrow() {
		return core.ErrorDecision(fmt.Errorf("%w: role %s may not borrow books", core.ErrNotPermitted, user.Role))
	}

	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if err = catalog.DecrementAvailability(command.BookID); err != nil {
		return core.ErrorDecision(err)
	}

	event, err := ledger.CreateLoan(command.LoanID, command.UserID, command.BookID, periodDays, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying all events of the book and the identity events of the user.
func BuildEventFilter(bookID core.BookIDString, userID core.UserIDString) eventstore.Filter {
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
		OrMatching().
		AnyEventTypeOf(
			core.UserRegisteredEventType,
			core.UserRemovedEventType,
		).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}
