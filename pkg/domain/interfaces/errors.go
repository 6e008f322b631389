package interfaces

import "errors"

// Sentinel errors shared by all repository backends so callers can
// match with errors.Is regardless of the configured backend.
var (
	ErrNotFound          = errors.New("not found")
	ErrPendingExists     = errors.New("pending approval already exists for actor")
	ErrAlreadyResolved   = errors.New("approval already resolved")
	ErrInvalidTransition = errors.New("invalid request state transition")
	ErrResultExists      = errors.New("execution result already stored")
)
