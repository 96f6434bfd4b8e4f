package directory

import "errors"

var (
	// ErrInvalidHierarchy covers cross-company parents, cycles and broken
	// ancestor chains alike.
	ErrInvalidHierarchy = errors.New("invalid branch hierarchy")

	// ErrHasActiveDependents blocks company deactivation while branches or
	// employees are still active.
	ErrHasActiveDependents = errors.New("company has active dependents")

	ErrNotFound = errors.New("record not found")
)
