package types

import "fmt"

// ExecutionStatus is the outcome of one executor dispatch
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// IsValid checks if the execution status is valid
func (s ExecutionStatus) IsValid() bool {
	return s == ExecutionStatusSuccess || s == ExecutionStatusFailed
}

// String returns the string representation of the execution status
func (s ExecutionStatus) String() string {
	return string(s)
}

// ParseExecutionStatus parses a string into an ExecutionStatus
func ParseExecutionStatus(s string) (ExecutionStatus, error) {
	status := ExecutionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid execution status: %s", s)
	}
	return status, nil
}
