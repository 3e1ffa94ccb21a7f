package listloans

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	queryType = "ListLoans"
)

// Query represents the intent to list loans. An empty UserID lists the loans of all users.
type Query struct {
	UserID core.UserIDString
}

// BuildQuery creates a Query for all loans.
func BuildQuery() Query {
	return Query{}
}

// BuildQueryForUser creates a Query for the loans of one user.
func BuildQueryForUser(userID core.UserIDString) Query {
	return Query{
		UserID: userID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
