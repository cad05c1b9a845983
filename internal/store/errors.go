package store

import "errors"

// Sentinel errors returned by store implementations. Services and
// handlers match on these with errors.Is and never surface the wrapped
// database error to the client.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrTaskNotFound  = errors.New("task not found")
	ErrCodeNotFound  = errors.New("code not found")
	ErrInvalidEntity = errors.New("invalid entity")
)
