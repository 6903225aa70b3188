package models

import "errors"

// Error taxonomy surfaced by the scheduling core. Repositories and
// services wrap these sentinels with context; handlers map them to HTTP
// status codes with errors.Is.
var (
	// ErrValidation indicates a malformed range or missing required field
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates an unknown vehicle, booking or maintenance ID
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an overlap violation on a vehicle schedule
	ErrConflict = errors.New("schedule conflict")

	// ErrForbidden indicates the actor lacks the required ownership or role
	ErrForbidden = errors.New("forbidden")
)
