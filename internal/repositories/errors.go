package repositories

import "errors"

// Failure taxonomy surfaced to the API layer. Handlers translate these with
// errors.Is; anything else is treated as an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrDuplicateEmail    = errors.New("email is already registered")
)
