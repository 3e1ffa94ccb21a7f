package loandetails

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	queryType = "LoanDetails"
)

// Query represents the intent to read one loan.
type Query struct {
	LoanID core.LoanIDString
}

// BuildQuery creates a new Query with the provided loan ID.
func BuildQuery(loanID core.LoanIDString) Query {
	return Query{
		LoanID: loanID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
