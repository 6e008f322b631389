package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// HistoryRepository keeps the bounded per-actor conversation history
// fed to the classifier as context
type HistoryRepository interface {
	// Append stores a turn, trimming the history to the backend's bound
	Append(ctx context.Context, actorID types.ActorID, turn model.ConversationTurn) error

	// Recent retrieves up to limit turns, oldest first
	Recent(ctx context.Context, actorID types.ActorID, limit int) ([]model.ConversationTurn, error)
}
