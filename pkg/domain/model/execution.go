package model

import (
	"time"

	"github.com/munim-lab/munim/pkg/domain/types"
)

// ExecutionResult is the persisted outcome of one executor dispatch.
// It doubles as the idempotency cache: a second execute call for the
// same request returns the stored result instead of re-performing the
// side effect.
type ExecutionResult struct {
	RequestID  types.RequestID
	Status     types.ExecutionStatus
	Detail     string
	Ref        string // ID of the created order/invoice/export, if any
	ExecutedAt time.Time
}

// Succeeded reports whether the execution completed its side effect
func (r *ExecutionResult) Succeeded() bool {
	return r.Status == types.ExecutionStatusSuccess
}
