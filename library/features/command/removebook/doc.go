// Package removebook implements the removal of a book with all its copies from the catalog.
package removebook
