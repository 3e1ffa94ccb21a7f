// Package core holds the lending domain: the domain events, the BookCatalog, LoanLedger and UserRegistry
// projections built from them and the DecisionResult the pure Decide functions return.
//
// Nothing in this package performs I/O. The projections are rebuilt from the events a command handler
// queried. A business operation on a projection validates the request, applies the resulting event to
// the projection and returns it, so that several operations can be chained in one decision.
package core
