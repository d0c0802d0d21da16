package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates a unique violation on the email column.
	ErrDuplicateEmail = errors.New("repository: email already exists")
	// ErrDuplicateUsername indicates a unique violation on the username column.
	ErrDuplicateUsername = errors.New("repository: username already exists")
)
