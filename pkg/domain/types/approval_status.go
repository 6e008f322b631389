package types

import "fmt"

// ApprovalStatus represents the status of an approval record
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// AllApprovalStatuses returns all valid approval statuses
func AllApprovalStatuses() []ApprovalStatus {
	return []ApprovalStatus{
		ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected,
	}
}

// IsValid checks if the approval status is valid
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status can no longer change
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// String returns the string representation of the approval status
func (s ApprovalStatus) String() string {
	return string(s)
}

// ParseApprovalStatus parses a string into an ApprovalStatus
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	status := ApprovalStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid approval status: %s", s)
	}
	return status, nil
}

// Decision is an admin decision on a pending approval. Only the two
// terminal statuses are valid decisions.
type Decision = ApprovalStatus

// ParseDecision parses a string into a terminal decision
func ParseDecision(s string) (Decision, error) {
	switch d := ApprovalStatus(s); d {
	case ApprovalStatusApproved, ApprovalStatusRejected:
		return d, nil
	default:
		return "", fmt.Errorf("invalid decision: %s", s)
	}
}
