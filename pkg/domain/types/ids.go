package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// RequestID identifies an ActionRequest
type RequestID string

// NewRequestID generates a new time-ordered RequestID
func NewRequestID() RequestID {
	return RequestID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the RequestID is valid
func (id RequestID) Validate() error {
	if id == "" {
		return goerr.New("request ID is empty")
	}
	return nil
}

// String returns the string representation of the RequestID
func (id RequestID) String() string {
	return string(id)
}

// ApprovalID identifies an ApprovalRecord
type ApprovalID string

// NewApprovalID generates a new time-ordered ApprovalID
func NewApprovalID() ApprovalID {
	return ApprovalID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the ApprovalID is valid
func (id ApprovalID) Validate() error {
	if id == "" {
		return goerr.New("approval ID is empty")
	}
	return nil
}

// String returns the string representation of the ApprovalID
func (id ApprovalID) String() string {
	return string(id)
}

// ActorID identifies a customer/channel session that originated a
// message. It is opaque to the pipeline: "telegram:12345",
// "whatsapp:+91..." and web session IDs are all valid values.
type ActorID string

// Validate checks if the ActorID is valid
func (id ActorID) Validate() error {
	if id == "" {
		return goerr.New("actor ID is empty")
	}
	return nil
}

// String returns the string representation of the ActorID
func (id ActorID) String() string {
	return string(id)
}

// AuditID identifies an AuditEntry
type AuditID string

// NewAuditID generates a new time-ordered AuditID
func NewAuditID() AuditID {
	return AuditID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the AuditID
func (id AuditID) String() string {
	return string(id)
}
