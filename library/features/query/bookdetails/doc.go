// Package bookdetails implements the lookup of a single catalog book.
package bookdetails
