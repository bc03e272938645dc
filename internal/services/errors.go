package services

import "errors"

// Sentinel errors shared by the service layer. Handlers branch on these
// with errors.Is; anything else is treated as a storage failure.
var (
	// ErrNotFound covers both truly missing records and records owned by a
	// different user, so the existence of other users' data is not
	// observable.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail signals a registration attempt with an email that
	// is already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any login failure, whether the
	// email is unknown or the password wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyText rejects todos without text.
	ErrEmptyText = errors.New("todo text must not be empty")
)
