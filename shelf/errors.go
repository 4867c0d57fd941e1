package shelf

import "errors"

// Every failure in the system falls into one of these four buckets. They are
// surfaced to the user as a message and never terminate the process.
var (
	// ErrNotFound covers an unknown username or an unmatched book title.
	ErrNotFound = errors.New("not found")

	// ErrBadCredential is a password mismatch for an existing account.
	ErrBadCredential = errors.New("invalid credentials")

	// ErrDuplicateKey is a username collision at registration.
	ErrDuplicateKey = errors.New("username already exists")

	// ErrMissingField is an empty required input.
	ErrMissingField = errors.New("required field is empty")
)
