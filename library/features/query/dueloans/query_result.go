package dueloans

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// DueLoans represents the query result, ordered by loan date.
type DueLoans struct {
	Loans []core.Loan
	Count int
}
