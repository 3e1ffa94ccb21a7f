package listusers

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Users represents the query result, ordered by registration time.
type Users struct {
	Users []core.User
	Count int
}
