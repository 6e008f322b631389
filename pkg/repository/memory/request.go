package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

type requestRepository struct {
	mu       sync.RWMutex
	requests map[types.RequestID]*model.ActionRequest
}

func newRequestRepository() *requestRepository {
	return &requestRepository{
		requests: make(map[types.RequestID]*model.ActionRequest),
	}
}

// copyRequest creates a deep copy of a request
func copyRequest(r *model.ActionRequest) *model.ActionRequest {
	copied := *r
	if r.Entities.Items != nil {
		copied.Entities.Items = make([]model.LineItem, len(r.Entities.Items))
		copy(copied.Entities.Items, r.Entities.Items)
	}
	return &copied
}

func (r *requestRepository) Create(ctx context.Context, req *model.ActionRequest) (*model.ActionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyRequest(req)
	if created.ID == "" {
		created.ID = types.NewRequestID()
	}
	if created.State == "" {
		created.State = types.RequestStateCreated
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.requests[created.ID] = created
	return copyRequest(created), nil
}

func (r *requestRepository) Get(ctx context.Context, id types.RequestID) (*model.ActionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, exists := r.requests[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("request_id", id))
	}

	return copyRequest(req), nil
}

func (r *requestRepository) UpdateState(ctx context.Context, id types.RequestID, next types.RequestState) (*model.ActionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, exists := r.requests[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("request_id", id))
	}

	if !req.State.CanTransitionTo(next) {
		return nil, goerr.Wrap(interfaces.ErrInvalidTransition, "cannot transition request state",
			goerr.V("request_id", id), goerr.V("from", req.State), goerr.V("to", next))
	}

	req.State = next
	return copyRequest(req), nil
}

func (r *requestRepository) ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.ActionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ActionRequest, 0)
	for _, req := range r.requests {
		if req.ActorID == actorID {
			result = append(result, copyRequest(req))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
