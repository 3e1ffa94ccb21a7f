package bookdetails

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project returns the book with its current availability, core.ErrNotFound if it is unknown or removed.
func Project(history core.DomainEvents, query Query) (core.Book, error) {
	catalog, err := core.ProjectBookCatalog(history)
	if err != nil {
		return core.Book{}, err
	}

	return catalog.Book(query.BookID)
}

// BuildEventFilter creates the filter for querying the catalog and availability events of the book.
func BuildEventFilter(query Query) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", query.BookID)).
		Finalize()
}
