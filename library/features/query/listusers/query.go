package listusers

const (
	queryType = "ListUsers"
)

// Query represents the intent to list the registered users.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
