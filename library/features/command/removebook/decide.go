package removebook

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether a book can be removed from the catalog.
//
// Business Rules:
//
//	GIVEN: A catalog book with BookID
//	WHEN: RemoveBook command is received
//	THEN: BookRemovedFromCatalog event is generated
//	ERROR: NotFound if the book is unknown or already removed
//	ERROR: Conflict if any copy is on loan, overdue loans included
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	event, err := catalog.RemoveBook(command.BookID, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying all events of the book.
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
