package listloans

import (
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/core"
)

// Project implements the query logic of the loan listing.
//
// Query Logic:
//
//	GIVEN: The loan lifecycle events (of one user, if UserID is set) and the catalog events
//	WHEN: ListLoans query is executed
//	THEN: Loans is returned, oldest loan first
//	INCLUDES: returned loans, the last known title and author of the book
func Project(history core.DomainEvents, query Query) (Loans, error) {
	ledger, err := core.ProjectLoanLedger(history)
	if err != nil {
		return Loans{}, err
	}

	summaries := make(map[core.BookIDString]*BookSummary)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAddedToCatalog:
			summaries[e.BookID] = &BookSummary{BookID: e.BookID, Title: e.Title, Author: e.Author, ISBN: e.ISBN}

		case core.BookDetailsUpdated:
			summaries[e.BookID] = &BookSummary{BookID: e.BookID, Title: e.Title, Author: e.Author, ISBN: e.ISBN}
		}
	}

	var loans []core.Loan
	if query.UserID == "" {
		loans = ledger.Loans()
	} else {
		loans = ledger.LoansOfUser(query.UserID)
	}

	views := make([]LoanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, LoanView{Loan: loan, Book: summaries[loan.BookID]})
	}

	return Loans{
		Loans: views,
		Count: len(views),
	}, nil
}

// BuildEventFilter creates the filter for querying the loan lifecycle events and the book details.
func BuildEventFilter(query Query) eventstore.Filter {
	loanEvents := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookDetailsUpdatedEventType,
		).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyLentToUserEventType,
			core.BookCopyReturnedByUserEventType,
			core.LoanMarkedOverdueEventType,
		)

	if query.UserID == "" {
		return loanEvents.Finalize()
	}

	return loanEvents.AndAnyPredicateOf(eventstore.P("UserID", query.UserID)).Finalize()
}
