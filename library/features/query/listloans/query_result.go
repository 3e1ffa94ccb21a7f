package listloans

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// BookSummary identifies the book of a loan.
type BookSummary struct {
	BookID core.BookIDString
	Title  string
	Author string
	ISBN   core.ISBNString
}

// LoanView is a loan together with the summary of its book, Book is nil if the book is unknown.
type LoanView struct {
	core.Loan
	Book *BookSummary
}

// Loans represents the query result, ordered by loan date.
type Loans struct {
	Loans []LoanView
	Count int
}
