// Package loandetails implements the lookup of a single loan, used for ownership checks and as the
// response of a return.
package loandetails
