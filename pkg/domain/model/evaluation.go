package model

import "github.com/munim-lab/munim/pkg/domain/types"

// Evaluation is the business-rule verdict for one ActionRequest.
// RequiresApproval is the only field that gates execution; RiskLevel
// orders the admin queue and nothing else.
type Evaluation struct {
	RequiresApproval bool
	RiskLevel        types.RiskLevel
	Reasons          []string

	// NeedsClarification is set by the confidence override: the
	// proposed action must be replaced by a clarification question
	// instead of being executed or queued as-is.
	NeedsClarification bool
}
