package errors

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")

	// ErrStatusConflict means a conditional status update matched zero
	// documents: the spot moved out of the expected state between read and
	// write, or was never in it.
	ErrStatusConflict = errors.New("spot status conflict")

	// ErrSessionClosed means the session was already checked out.
	ErrSessionClosed = errors.New("session already closed")
)
