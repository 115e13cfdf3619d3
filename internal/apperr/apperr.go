// Package apperr defines the error kinds shared by all core services.
// Services wrap these sentinels with entity context; handlers translate them
// to transport status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller lacks the required role or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a duplicate or idempotency violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState indicates the operation is illegal in the current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument indicates an out-of-range or unrecognized input value.
	ErrInvalidArgument = errors.New("invalid argument")
)
