package listbooks

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project implements the query logic of the catalog listing.
//
// Query Logic:
//
//	GIVEN: The catalog and loan events
//	WHEN: ListBooks query is executed
//	THEN: Books is returned, oldest first
//	INCLUDES: details, total and available copies
//	EXCLUDES: removed books
func Project(history core.DomainEvents, _ Query) (Books, error) {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return Books{}, err
	}

	books := catalog.Books()

	return Books{
		Books: books,
		Count: len(books),
	}, nil
}

// BuildEventFilter creates the filter for querying all events that shape the catalog and its availability.
func BuildEventFilter(_ Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
		).
		Finalize()
}
