// Package errs declares the error kinds shared by the booking core. Domain
// packages wrap these sentinels so callers can classify failures with errors.Is.
package errs

import "errors"

var (
	// ErrValidation marks malformed input: bad slot strings, past dates, bad payloads.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks references to records that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a slot that is already taken, including races lost at the storage layer.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks an operation the caller is not allowed to perform on a record.
	ErrForbidden = errors.New("forbidden")
)
