// Package scanner runs the overdue sweep: on a fixed interval, every active loan past its due date
// is marked overdue. Failing loans are logged and left for the next run.
package scanner
