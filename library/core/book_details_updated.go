package core

import (
	"time"
)

// BookDetailsUpdatedEventType is the event type identifier.
const BookDetailsUpdatedEventType = "BookDetailsUpdated"

// BookDetailsUpdated carries the complete details of a book after a (partial) update.
// PreviousISBN is set so that filters on the old ISBN still find the event.
type BookDetailsUpdated struct {
	EventType       EventTypeString
	BookID          BookIDString
	ISBN            ISBNString
	PreviousISBN    ISBNString
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	Category        string
	Description     string
	TotalCopies     int
	OccurredAt      OccurredAtTS
}

// BuildBookDetailsUpdated creates a new BookDetailsUpdated event.
func BuildBookDetailsUpdated(
	bookID BookIDString,
	previousISBN ISBNString,
	details BookDetails,
	occurredAt time.Time,
) BookDetailsUpdated {

	return BookDetailsUpdated{
		EventType:       BookDetailsUpdatedEventType,
		BookID:          bookID,
		ISBN:            details.ISBN,
		PreviousISBN:    previousISBN,
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
func (e BookDetailsUpdated) Details() BookDetails {
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
func (e BookDetailsUpdated) IsEventType() string {
	return BookDetailsUpdatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookDetailsUpdated) HasOccurredAt() time.Time {
	return e.OccurredAt
}
