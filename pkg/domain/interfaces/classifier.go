package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
)

// IntentClassifier turns raw text plus conversation context into a
// structured classification. Implementations must tolerate malformed
// model output and return an error instead of garbage; the pipeline
// applies the deterministic fallback on any error.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, history []model.ConversationTurn) (*model.Classification, error)
}
