package types

import "fmt"

// RequestState represents the lifecycle state of an ActionRequest.
//
//	CREATED -> EXECUTING -> EXECUTED | FAILED            (auto path)
//	CREATED -> AWAITING_APPROVAL -> APPROVED -> EXECUTING -> EXECUTED | FAILED
//	CREATED -> AWAITING_APPROVAL -> REJECTED             (terminal)
//
// AWAITING_APPROVAL is the only state in which the actor's lock is held.
type RequestState string

const (
	RequestStateCreated          RequestState = "CREATED"
	RequestStateAwaitingApproval RequestState = "AWAITING_APPROVAL"
	RequestStateApproved         RequestState = "APPROVED"
	RequestStateRejected         RequestState = "REJECTED"
	RequestStateExecuting        RequestState = "EXECUTING"
	RequestStateExecuted         RequestState = "EXECUTED"
	RequestStateFailed           RequestState = "FAILED"
)

// AllRequestStates returns all valid request states
func AllRequestStates() []RequestState {
	return []RequestState{
		RequestStateCreated,
		RequestStateAwaitingApproval,
		RequestStateApproved,
		RequestStateRejected,
		RequestStateExecuting,
		RequestStateExecuted,
		RequestStateFailed,
	}
}

// IsValid checks if the request state is valid
func (s RequestState) IsValid() bool {
	switch s {
	case RequestStateCreated,
		RequestStateAwaitingApproval,
		RequestStateApproved,
		RequestStateRejected,
		RequestStateExecuting,
		RequestStateExecuted,
		RequestStateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state can no longer change
func (s RequestState) IsTerminal() bool {
	switch s {
	case RequestStateRejected, RequestStateExecuted, RequestStateFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks a single step of the request state machine
func (s RequestState) CanTransitionTo(next RequestState) bool {
	switch s {
	case RequestStateCreated:
		return next == RequestStateExecuting || next == RequestStateAwaitingApproval
	case RequestStateAwaitingApproval:
		return next == RequestStateApproved || next == RequestStateRejected
	case RequestStateApproved:
		return next == RequestStateExecuting
	case RequestStateExecuting:
		return next == RequestStateExecuted || next == RequestStateFailed
	default:
		return false
	}
}

// String returns the string representation of the request state
func (s RequestState) String() string {
	return string(s)
}

// ParseRequestState parses a string into a RequestState
func ParseRequestState(s string) (RequestState, error) {
	state := RequestState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid request state: %s", s)
	}
	return state, nil
}
