// Package listloans implements the loan listing, either of all loans or of one user's loans.
// Each loan carries a summary of its book, which stays available after the book left the catalog.
package listloans
