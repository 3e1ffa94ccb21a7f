// Package markoverdue implements the transition of an active loan past its due date to overdue.
package markoverdue
