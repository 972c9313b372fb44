package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for missing or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is known but may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict reports a request that collides with existing state.
	ErrConflict = errors.New("conflict")
)
