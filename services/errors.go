package services

import "errors"

// Error kinds surfaced to handlers. Wrap with fmt.Errorf("%w: ...") and test
// with errors.Is; anything not matching one of these is a server-side failure
// that committed nothing and is safe to retry.
var (
	// ErrNotFound: a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the operation conflicts with current state, e.g. an
	// attempt already submitted or a quiz outside its window. Retrying with
	// the same input cannot succeed.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation: malformed input, rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden: the caller does not own the referenced record.
	ErrForbidden = errors.New("forbidden")
)
