package memory

import (
	"context"
	"sync"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// maxTurnsPerActor bounds the rolling conversation history
const maxTurnsPerActor = 20

type historyRepository struct {
	mu    sync.RWMutex
	turns map[types.ActorID][]model.ConversationTurn
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		turns: make(map[types.ActorID][]model.ConversationTurn),
	}
}

func (r *historyRepository) Append(ctx context.Context, actorID types.ActorID, turn model.ConversationTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	turns := append(r.turns[actorID], turn)
	if len(turns) > maxTurnsPerActor {
		turns = turns[len(turns)-maxTurnsPerActor:]
	}
	r.turns[actorID] = turns
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, actorID types.ActorID, limit int) ([]model.ConversationTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	turns := r.turns[actorID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	result := make([]model.ConversationTurn, len(turns))
	copy(result, turns)
	return result, nil
}
