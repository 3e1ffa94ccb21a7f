// Package updatebook implements the partial update of a catalog book's details, including its number of copies.
package updatebook
