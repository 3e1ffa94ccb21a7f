package finduser

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const (
	queryType = "FindUser"
)

// Query represents the intent to find one user, exactly one of UserID and Username is set.
type Query struct {
	UserID   core.UserIDString
	Username string
}

// BuildQueryByID creates a Query for the user with the given ID.
func BuildQueryByID(userID core.UserIDString) Query {
	return Query{
		UserID: userID,
	}
}

// BuildQueryByUsername creates a Query for the user with the given username, compared case-insensitively.
func BuildQueryByUsername(username string) Query {
	return Query{
		Username: core.NormalizeUsername(username),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
