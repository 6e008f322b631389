package model

import "github.com/munim-lab/munim/pkg/domain/types"

// Classification is the structured result of intent classification,
// regardless of whether it came from the LLM or the keyword fallback.
type Classification struct {
	Intent         types.ActionKind
	Entities       Entities
	Confidence     float64
	ProposedAction types.ActionKind
	Urgent         bool
}

// FallbackClassification is the deterministic classification used when
// the classifier times out or errors. The pipeline must never stall on
// the external LLM.
func FallbackClassification() *Classification {
	return &Classification{
		Intent:         types.ActionGeneralQuery,
		Confidence:     0.3,
		ProposedAction: types.ActionGeneralQuery,
	}
}
