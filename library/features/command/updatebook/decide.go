package updatebook

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic of a partial book update.
//
// Business Rules:
//
//	GIVEN: A catalog book with BookID
//	WHEN: UpdateBook command is received
//	THEN: BookDetailsUpdated event with the complete merged details is generated
//	ERROR: NotFound if the book is unknown or was removed
//	ERROR: Validation if the merged details are invalid or totalCopies drops below the copies on loan
//	ERROR: Conflict if the new ISBN belongs to another book
//	IDEMPOTENCY: If the patch changes nothing, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	book, err := catalog.Book(command.BookID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	if command.Patch.ApplyTo(book.BookDetails) == book.BookDetails {
		return core.IdempotentDecision()
	}

	event, err := catalog.UpdateBook(command.BookID, command.Patch, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying all catalog events (ISBN uniqueness)
// and the loan events of the book (copies on loan).
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
			core.BookRemovedFromCatalogEventType,
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
