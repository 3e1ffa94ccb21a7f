// Package returnloan implements the return of a borrowed book copy.
//
// The loan id alone does not tell which book's consistency boundary is affected, so the handler
// first locates the loan and then decides over all events of its book.
package returnloan
