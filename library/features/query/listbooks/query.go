package listbooks

const (
	queryType = "ListBooks"
)

// Query represents the intent to list the catalog.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
