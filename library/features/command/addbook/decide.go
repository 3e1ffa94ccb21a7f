package addbook

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Decide implements the business logic to determine whether a book can be added to the catalog.
//
// Business Rules:
//
//	GIVEN: A book with BookID and its details
//	WHEN: AddBook command is received
//	THEN: BookAddedToCatalog event is generated, all copies are available
//	ERROR: Validation if title, author or isbn is missing, the publication year is out of range or there is no copy
//	ERROR: Conflict if the ISBN is held by a catalog book or the BookID was used before
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.ErrorDecision(err)
	}

	event, err := catalog.AddBook(command.BookID, command.Details, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

// BuildEventFilter creates the filter for querying all catalog events, ISBN uniqueness spans the whole catalog.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
			core.BookRemovedFromCatalogEventType,
		).
		Finalize()
}
