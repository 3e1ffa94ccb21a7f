// Package lending is the entry point of the lending domain for the transport and the overdue scanner.
//
// Service assigns identifiers, stamps commands with the clock and runs the command and query handlers,
// each wrapped with metrics, tracing and logging when the collectors are configured.
// RequestLoan and ReturnLoan are single atomic units: one query, one decision, one conditional append
// over the consistency boundary of the affected book.
package lending
