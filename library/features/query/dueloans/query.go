package dueloans

import (
	"time"
)

const (
	queryType = "DueLoans"
)

// Query represents the intent to find the loans that are due for the overdue transition at Now.
type Query struct {
	Now time.Time
}

// BuildQuery creates a new Query with the provided point in time.
func BuildQuery(now time.Time) Query {
	return Query{
		Now: now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
