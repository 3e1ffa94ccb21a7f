// Package listbooks implements the catalog listing: every book that is currently in the catalog
// together with its available copies.
package listbooks
