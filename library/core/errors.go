package core

import (
	"errors"
	"fmt"
	"strings"
)

// The error kinds of the lending domain. Operations wrap them with details, classify with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrNotAvailable        = errors.New("no copy available")
	ErrDuplicateActiveLoan = errors.New("user already holds a copy of this book")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyReturned     = errors.New("loan already returned")
	ErrOverflow            = errors.New("available copies would exceed total copies")
	ErrNotPermitted        = errors.New("not permitted")
)

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
}

func notFound(entity string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// IsRuleViolation reports whether err is a rejected request rather than a failure.
// ErrOverflow is a broken invariant and not a rule violation.
func IsRuleViolation(err error) bool {
	for _, kind := range []error{
		ErrValidation,
		ErrConflict,
		ErrNotAvailable,
		ErrDuplicateActiveLoan,
		ErrNotFound,
		ErrAlreadyReturned,
		ErrNotPermitted,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}

	return false
}
