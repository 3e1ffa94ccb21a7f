// Package requestloan implements the use case of a student or teacher borrowing one copy of a book.
//
// The decision spans the book (availability), the borrower's loans of that book and the borrower's identity,
// so the filter combines the book's events with the identity events of the user.
package requestloan
