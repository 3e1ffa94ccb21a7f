package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// BookDetails are the descriptive fields of a catalog book.
type BookDetails struct {
	Title           string
	Author          string
	ISBN            ISBNString
	Publisher       string
	PublicationYear int
	Category        string
	Description     string
	TotalCopies     int
}

// BookPatch is a partial update of BookDetails, nil fields stay unchanged.
type BookPatch struct {
	Title           *string
	Author          *string
	ISBN            *ISBNString
	Publisher       *string
	PublicationYear *int
	Category        *string
	Description     *string
	TotalCopies     *int
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p == BookPatch{}
}

// ApplyTo returns the details with all non-nil fields of the patch replaced.
func (p BookPatch) ApplyTo(details BookDetails) BookDetails {
	if p.Title != nil {
		details.Title = *p.Title
	}
	if p.Author != nil {
		details.Author = *p.Author
	}
	if p.ISBN != nil {
		details.ISBN = *p.ISBN
	}
	if p.Publisher != nil {
		details.Publisher = *p.Publisher
	}
	if p.PublicationYear != nil {
		details.PublicationYear = *p.PublicationYear
	}
	if p.Category != nil {
		details.Category = *p.Category
	}
	if p.Description != nil {
		details.Description = *p.Description
	}
	if p.TotalCopies != nil {
		details.TotalCopies = *p.TotalCopies
	}

	return details.normalized()
}

func (d BookDetails) normalized() BookDetails {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.ISBN = strings.TrimSpace(d.ISBN)
	d.Publisher = strings.TrimSpace(d.Publisher)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)

	return d
}

func (d BookDetails) validate(at time.Time) error {
	var problems []string

	if d.Title == "" {
		problems = append(problems, "title is required")
	}
	if d.Author == "" {
		problems = append(problems, "author is required")
	}
	if d.ISBN == "" {
		problems = append(problems, "isbn is required")
	}
	if d.PublicationYear < 1 || d.PublicationYear > at.Year()+1 {
		problems = append(problems, fmt.Sprintf("publicationYear must be between 1 and %d", at.Year()+1))
	}
	if d.TotalCopies < 1 {
		problems = append(problems, "totalCopies must be at least 1")
	}

	return validationError(problems)
}

// NormalizeISBN strips hyphens and spaces so that differently formatted ISBNs compare equal.
func NormalizeISBN(isbn ISBNString) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(isbn))
}

// Book is a catalog entry together with its current availability.
type Book struct {
	BookID BookIDString
	BookDetails
	AvailableCopies int
	AddedAt         time.Time
	UpdatedAt       time.Time
}

// CopiesOnLoan returns how many copies are currently held by users (active or overdue loans).
func (b Book) CopiesOnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// BookCatalog holds the books of the catalog and the availability of their copies.
//
// Availability changes only through DecrementAvailability and IncrementAvailability,
// applying a lent or returned event goes through them as well.
type BookCatalog struct {
	books     map[BookIDString]*Book
	isbnIndex map[string]BookIDString
	removed   map[BookIDString]struct{}
}

// NewBookCatalog returns an empty catalog.
func NewBookCatalog() *BookCatalog {
	return &BookCatalog{
		books:     make(map[BookIDString]*Book),
		isbnIndex: make(map[string]BookIDString),
		removed:   make(map[BookIDString]struct{}),
	}
}

// ProjectBookCatalog replays the history into a BookCatalog, events of other types are ignored.
func ProjectBookCatalog(history DomainEvents) (*BookCatalog, error) {
	catalog := NewBookCatalog()

	for _, event := range history {
		if err := catalog.Apply(event); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

// Apply folds one event into the catalog.
func (c *BookCatalog) Apply(event DomainEvent) error {
	switch e := event.(type) {
	case BookAddedToCatalog:
		c.books[e.BookID] = &Book{
			BookID:          e.BookID,
			BookDetails:     e.Details(),
			AvailableCopies: e.TotalCopies,
			AddedAt:         e.OccurredAt,
			UpdatedAt:       e.OccurredAt,
		}
		c.isbnIndex[NormalizeISBN(e.ISBN)] = e.BookID

	case BookDetailsUpdated:
		book, ok := c.books[e.BookID]
		if !ok {
			return notFound("book", e.BookID)
		}

		onLoan := book.CopiesOnLoan()
		delete(c.isbnIndex, NormalizeISBN(book.ISBN))
		book.BookDetails = e.Details()
		book.AvailableCopies = e.TotalCopies - onLoan
		book.UpdatedAt = e.OccurredAt
		c.isbnIndex[NormalizeISBN(e.ISBN)] = e.BookID

	case BookRemovedFromCatalog:
		if book, ok := c.books[e.BookID]; ok {
			delete(c.isbnIndex, NormalizeISBN(book.ISBN))
			delete(c.books, e.BookID)
		}
		c.removed[e.BookID] = struct{}{}

	case BookCopyLentToUser:
		return c.DecrementAvailability(e.BookID)

	case BookCopyReturnedByUser:
		return c.IncrementAvailability(e.BookID)
	}

	return nil
}

// AddBook validates a new book and returns the event that puts it into the catalog.
// The event is applied, the book is available with all its copies.
func (c *BookCatalog) AddBook(bookID BookIDString, details BookDetails, at time.Time) (BookAddedToCatalog, error) {
	details = details.normalized()

	if err := details.validate(at); err != nil {
		return BookAddedToCatalog{}, err
	}

	if c.isKnown(bookID) {
		return BookAddedToCatalog{}, fmt.Errorf("%w: book %s already exists", ErrConflict, bookID)
	}

	if holder, taken := c.isbnIndex[NormalizeISBN(details.ISBN)]; taken {
		return BookAddedToCatalog{}, fmt.Errorf("%w: isbn %s is already used by book %s", ErrConflict, details.ISBN, holder)
	}

	event := BuildBookAddedToCatalog(bookID, details, at)
	if err := c.Apply(event); err != nil {
		return BookAddedToCatalog{}, err
	}

	return event, nil
}

// UpdateBook merges the patch into the book's details and returns the event carrying the result.
// The total copies may not drop below the copies currently on loan.
func (c *BookCatalog) UpdateBook(bookID BookIDString, patch BookPatch, at time.Time) (BookDetailsUpdated, error) {
	book, ok := c.books[bookID]
	if !ok {
		return BookDetailsUpdated{}, notFound("book", bookID)
	}

	merged := patch.ApplyTo(book.BookDetails)

	if err := merged.validate(at); err != nil {
		return BookDetailsUpdated{}, err
	}

	if holder, taken := c.isbnIndex[NormalizeISBN(merged.ISBN)]; taken && holder != bookID {
		return BookDetailsUpdated{}, fmt.Errorf("%w: isbn %s is already used by book %s", ErrConflict, merged.ISBN, holder)
	}

	if onLoan := book.CopiesOnLoan(); merged.TotalCopies < onLoan {
		return BookDetailsUpdated{}, validationError([]string{
			fmt.Sprintf("totalCopies %d is less than the %d copies currently on loan", merged.TotalCopies, onLoan),
		})
	}

	event := BuildBookDetailsUpdated(bookID, book.ISBN, merged, at)
	if err := c.Apply(event); err != nil {
		return BookDetailsUpdated{}, err
	}

	return event, nil
}

// RemoveBook returns the event that takes the book out of the catalog.
// Books with copies on loan can't be removed.
func (c *BookCatalog) RemoveBook(bookID BookIDString, at time.Time) (BookRemovedFromCatalog, error) {
	book, ok := c.books[bookID]
	if !ok {
		return BookRemovedFromCatalog{}, notFound("book", bookID)
	}

	if onLoan := book.CopiesOnLoan(); onLoan > 0 {
		return BookRemovedFromCatalog{}, fmt.Errorf("%w: book %s has %d copies on loan", ErrConflict, bookID, onLoan)
	}

	event := BuildBookRemovedFromCatalog(bookID, book.ISBN, at)
	if err := c.Apply(event); err != nil {
		return BookRemovedFromCatalog{}, err
	}

	return event, nil
}

// DecrementAvailability takes one copy of the book off the shelf.
func (c *BookCatalog) DecrementAvailability(bookID BookIDString) error {
	book, ok := c.books[bookID]
	if !ok {
		return notFound("book", bookID)
	}

	if book.AvailableCopies == 0 {
		return fmt.Errorf("%w: book %s", ErrNotAvailable, bookID)
	}

	book.AvailableCopies--

	return nil
}

// IncrementAvailability puts one copy of the book back on the shelf.
func (c *BookCatalog) IncrementAvailability(bookID BookIDString) error {
	book, ok := c.books[bookID]
	if !ok {
		return notFound("book", bookID)
	}

	if book.AvailableCopies >= book.TotalCopies {
		return fmt.Errorf("%w: book %s has all %d copies on the shelf", ErrOverflow, bookID, book.TotalCopies)
	}

	book.AvailableCopies++

	return nil
}

// AvailableCopies returns the number of copies on the shelf.
func (c *BookCatalog) AvailableCopies(bookID BookIDString) (int, error) {
	book, ok := c.books[bookID]
	if !ok {
		return 0, notFound("book", bookID)
	}

	return book.AvailableCopies, nil
}

// Book returns a copy of the book.
func (c *BookCatalog) Book(bookID BookIDString) (Book, error) {
	book, ok := c.books[bookID]
	if !ok {
		return Book{}, notFound("book", bookID)
	}

	return *book, nil
}

// Books returns all catalog books ordered by the time they were added.
func (c *BookCatalog) Books() []Book {
	books := make([]Book, 0, len(c.books))
	for _, book := range c.books {
		books = append(books, *book)
	}

	slices.SortFunc(books, func(a, b Book) int {
		if byTime := a.AddedAt.Compare(b.AddedAt); byTime != 0 {
			return byTime
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return books
}

// WasRemoved reports whether the book existed and was removed.
func (c *BookCatalog) WasRemoved(bookID BookIDString) bool {
	_, removed := c.removed[bookID]

	return removed
}

func (c *BookCatalog) isKnown(bookID BookIDString) bool {
	_, exists := c.books[bookID]

	return exists || c.WasRemoved(bookID)
}
