package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// RequestRepository defines the interface for ActionRequest data access.
// Requests are immutable except for their lifecycle state.
type RequestRepository interface {
	// Create stores a new request
	Create(ctx context.Context, req *model.ActionRequest) (*model.ActionRequest, error)

	// Get retrieves a request by ID
	Get(ctx context.Context, id types.RequestID) (*model.ActionRequest, error)

	// UpdateState advances the request state machine. Fails when the
	// transition from the stored state is not allowed.
	UpdateState(ctx context.Context, id types.RequestID, next types.RequestState) (*model.ActionRequest, error)

	// ListByActor retrieves the most recent requests of one actor,
	// newest first
	ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.ActionRequest, error)
}
