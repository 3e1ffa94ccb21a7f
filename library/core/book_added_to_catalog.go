package core

import (
	"time"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when an administrator adds a book with all its copies to the catalog.
type BookAddedToCatalog struct {
	EventType       EventTypeString
	BookID          BookIDString
	ISBN            ISBNString
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	Category        string
	Description     string
	TotalCopies     int
	OccurredAt      OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(bookID BookIDString, details BookDetails, occurredAt time.Time) BookAddedToCatalog {
	return BookAddedToCatalog{
		EventType:       BookAddedToCatalogEventType,
		BookID:          bookID,
		ISBN:            details.ISBN,
		Title:           details.Title,
		Author:          details.Author,
		Publisher:       details.Publisher,
		PublicationYear: details.PublicationYear,
		Category:        details.Category,
		Description:     details.Description,
		TotalCopies:     details.TotalCopies,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// Details returns the book details carried by the event.
func (e BookAddedToCatalog) Details() BookDetails {
	return BookDetails{
		Title:           e.Title,
		Author:          e.Author,
		ISBN:            e.ISBN,
		Publisher:       e.Publisher,
		PublicationYear: e.PublicationYear,
		Category:        e.Category,
		Description:     e.Description,
		TotalCopies:     e.TotalCopies,
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
