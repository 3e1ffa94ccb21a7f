package lending

import (
	"github.com/AntonStoeckl/library-lending-go/library/core"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/markoverdue"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/removeuser"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/requestloan"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/dueloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/finduser"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listbooks"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listloans"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/listusers"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/loandetails"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shell/observable"
)

type handlers struct {
	addBook      shell.CoreCommandHandler[addbook.Command]
	updateBook   shell.CoreCommandHandler[updatebook.Command]
	removeBook   shell.CoreCommandHandler[removebook.Command]
	requestLoan  shell.CoreCommandHandler[requestloan.Command]
	returnLoan   shell.CoreCommandHandler[returnloan.Command]
	markOverdue  shell.CoreCommandHandler[markoverdue.Command]
	registerUser shell.CoreCommandHandler[registeruser.Command]
	removeUser   shell.CoreCommandHandler[removeuser.Command]

	listBooks   shell.CoreQueryHandler[listbooks.Query, listbooks.Books]
	bookDetails shell.CoreQueryHandler[bookdetails.Query, core.Book]
	listLoans   shell.CoreQueryHandler[listloans.Query, listloans.Loans]
	loanDetails shell.CoreQueryHandler[loandetails.Query, core.Loan]
	dueLoans    shell.CoreQueryHandler[dueloans.Query, dueloans.DueLoans]
	listUsers   shell.CoreQueryHandler[listusers.Query, listusers.Users]
	findUser    shell.CoreQueryHandler[finduser.Query, core.User]
}

func (s *Service) buildHandlers(eventStore shell.EventStore) (err error) {
	h := &s.handlers

	if h.addBook, err = instrumentCommand[addbook.Command](s, addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.updateBook, err = instrumentCommand[updatebook.Command](s, updatebook.NewCommandHandler(eventStore, updatebook.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.removeBook, err = instrumentCommand[removebook.Command](s, removebook.NewCommandHandler(eventStore, removebook.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.requestLoan, err = instrumentCommand[requestloan.Command](s, requestloan.NewCommandHandler(eventStore, requestloan.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.returnLoan, err = instrumentCommand[returnloan.Command](s, returnloan.NewCommandHandler(eventStore, returnloan.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.markOverdue, err = instrumentCommand[markoverdue.Command](s, markoverdue.NewCommandHandler(eventStore, markoverdue.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.registerUser, err = instrumentCommand[registeruser.Command](s, registeruser.NewCommandHandler(eventStore, registeruser.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}
	if h.removeUser, err = instrumentCommand[removeuser.Command](s, removeuser.NewCommandHandler(eventStore, removeuser.WithRetryOptions(s.retryOptions...))); err != nil {
		return err
	}

	if h.listBooks, err = instrumentQuery[listbooks.Query, listbooks.Books](s, listbooks.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.bookDetails, err = instrumentQuery[bookdetails.Query, core.Book](s, bookdetails.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.listLoans, err = instrumentQuery[listloans.Query, listloans.Loans](s, listloans.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.loanDetails, err = instrumentQuery[loandetails.Query, core.Loan](s, loandetails.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.dueLoans, err = instrumentQuery[dueloans.Query, dueloans.DueLoans](s, dueloans.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.listUsers, err = instrumentQuery[listusers.Query, listusers.Users](s, listusers.NewQueryHandler(eventStore)); err != nil {
		return err
	}
	if h.findUser, err = instrumentQuery[finduser.Query, core.User](s, finduser.NewQueryHandler(eventStore)); err != nil {
		return err
	}

	return nil
}

func instrumentCommand[C shell.Command](s *Service, handler shell.CoreCommandHandler[C]) (shell.CoreCommandHandler[C], error) {
	return observable.NewCommandWrapper(
		handler,
		observable.WithCommandMetrics[C](s.metrics),
		observable.WithCommandTracing[C](s.tracing),
		observable.WithCommandContextualLogging[C](s.contextualLogger),
		observable.WithCommandLogging[C](s.logger),
	)
}

func instrumentQuery[Q shell.Query, R any](s *Service, handler shell.CoreQueryHandler[Q, R]) (shell.CoreQueryHandler[Q, R], error) {
	return observable.NewQueryWrapper(
		handler,
		observable.WithQueryMetrics[Q, R](s.metrics),
		observable.WithQueryTracing[Q, R](s.tracing),
		observable.WithQueryContextualLogging[Q, R](s.contextualLogger),
		observable.WithQueryLogging[Q, R](s.logger),
	)
}
