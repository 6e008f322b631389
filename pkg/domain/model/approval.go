package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// ApprovalRecord tracks the human-in-the-loop decision for one
// ActionRequest (1:1). Records are never deleted; terminal records stay
// for audit.
type ApprovalRecord struct {
	ID        types.ApprovalID
	RequestID types.RequestID
	ActorID   types.ActorID
	Status    types.ApprovalStatus

	// Priority orders the admin queue only. It never gates execution.
	Priority types.RiskLevel
	Reasons  []string

	ResolvedBy string
	ResolvedAt *time.Time

	// SlackChannelID/SlackMessageTS reference the admin console message
	// for this record, so it can be updated after resolution.
	SlackChannelID string
	SlackMessageTS string

	// ExecutedAt is stamped after a successful post-approval execution.
	// It stays unset when execution fails; FailureDetail carries the cause.
	ExecutedAt    *time.Time
	FailureDetail string

	CreatedAt time.Time
}

// CanResolve checks whether the record accepts a decision
func (a *ApprovalRecord) CanResolve(decision types.Decision) error {
	if a.Status != types.ApprovalStatusPending {
		return goerr.New("approval already resolved",
			goerr.V("approval_id", a.ID), goerr.V("status", a.Status))
	}
	if !decision.IsTerminal() {
		return goerr.New("decision must be terminal",
			goerr.V("approval_id", a.ID), goerr.V("decision", decision))
	}
	return nil
}
