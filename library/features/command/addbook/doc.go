// Package addbook implements the use case of an administrator adding a book with all its copies to the catalog.
package addbook
