package services

import "errors"

// Error kinds surfaced to the API layer. Wrapped with fmt.Errorf("%w: ...")
// when a message adds detail; anything else is an opaque store failure.
var (
	ErrValidation             = errors.New("validation error")
	ErrUnauthenticated        = errors.New("invalid credentials")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrNotFoundOrUnauthorized = errors.New("task not found or unauthorized")
	ErrDuplicateEmail         = errors.New("email already exists")
)
