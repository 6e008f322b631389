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

// approvalRepository owns both approval records and the per-actor lock
// under one mutex. A resolution and its lock release are therefore
// observable atomically to subsequent TryAcquire calls.
type approvalRepository struct {
	mu             sync.Mutex
	records        map[types.ApprovalID]*model.ApprovalRecord
	pendingByActor map[types.ActorID]types.ApprovalID
	locks          map[types.ActorID]struct{}
}

func newApprovalRepository() *approvalRepository {
	return &approvalRepository{
		records:        make(map[types.ApprovalID]*model.ApprovalRecord),
		pendingByActor: make(map[types.ActorID]types.ApprovalID),
		locks:          make(map[types.ActorID]struct{}),
	}
}

// copyApproval creates a deep copy of an approval record
func copyApproval(a *model.ApprovalRecord) *model.ApprovalRecord {
	copied := *a
	if a.Reasons != nil {
		copied.Reasons = make([]string, len(a.Reasons))
		copy(copied.Reasons, a.Reasons)
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		copied.ResolvedAt = &t
	}
	if a.ExecutedAt != nil {
		t := *a.ExecutedAt
		copied.ExecutedAt = &t
	}
	return &copied
}

func (r *approvalRepository) TryAcquire(ctx context.Context, actorID types.ActorID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.locks[actorID]; held {
		return false, nil
	}
	r.locks[actorID] = struct{}{}
	return true, nil
}

func (r *approvalRepository) Release(ctx context.Context, actorID types.ActorID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, actorID)
	return nil
}

func (r *approvalRepository) Create(ctx context.Context, rec *model.ApprovalRecord) (*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, exists := r.pendingByActor[rec.ActorID]; exists {
		return nil, goerr.Wrap(interfaces.ErrPendingExists, "actor already has a pending approval",
			goerr.V("actor_id", rec.ActorID), goerr.V("approval_id", existingID))
	}

	created := copyApproval(rec)
	if created.ID == "" {
		created.ID = types.NewApprovalID()
	}
	created.Status = types.ApprovalStatusPending
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.records[created.ID] = created
	r.pendingByActor[created.ActorID] = created.ID
	return copyApproval(created), nil
}

func (r *approvalRepository) Get(ctx context.Context, id types.ApprovalID) (*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
	}

	return copyApproval(rec), nil
}

func (r *approvalRepository) Resolve(ctx context.Context, id types.ApprovalID, decision types.Decision, resolvedBy string) (*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
	}

	if rec.Status != types.ApprovalStatusPending {
		return nil, goerr.Wrap(interfaces.ErrAlreadyResolved, "approval is not pending",
			goerr.V("approval_id", id), goerr.V("status", rec.Status))
	}

	if !decision.IsTerminal() {
		return nil, goerr.New("decision must be terminal",
			goerr.V("approval_id", id), goerr.V("decision", decision))
	}

	now := time.Now().UTC()
	rec.Status = decision
	rec.ResolvedBy = resolvedBy
	rec.ResolvedAt = &now

	// Lock release is part of the same critical section as the status
	// transition: the invariant is that the lock is never left held
	// after resolution, even if downstream execution later fails.
	delete(r.pendingByActor, rec.ActorID)
	delete(r.locks, rec.ActorID)

	return copyApproval(rec), nil
}

func (r *approvalRepository) SetSlackMessage(ctx context.Context, id types.ApprovalID, channelID, timestamp string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
	}

	rec.SlackChannelID = channelID
	rec.SlackMessageTS = timestamp
	return nil
}

func (r *approvalRepository) MarkExecuted(ctx context.Context, id types.ApprovalID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
	}

	t := at.UTC()
	rec.ExecutedAt = &t
	rec.FailureDetail = ""
	return nil
}

func (r *approvalRepository) MarkExecutionFailed(ctx context.Context, id types.ApprovalID, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
	}

	rec.FailureDetail = detail
	return nil
}

func (r *approvalRepository) ListPending(ctx context.Context, limit, offset int) ([]*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]*model.ApprovalRecord, 0, len(r.pendingByActor))
	for _, id := range r.pendingByActor {
		pending = append(pending, copyApproval(r.records[id]))
	}

	// Priority desc, createdAt asc within a tier
	sort.Slice(pending, func(i, j int) bool {
		wi, wj := pending[i].Priority.Weight(), pending[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if offset >= len(pending) {
		return []*model.ApprovalRecord{}, nil
	}
	pending = pending[offset:]

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

func (r *approvalRepository) CountPending(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pendingByActor), nil
}

func (r *approvalRepository) GetPendingByActor(ctx context.Context, actorID types.ActorID) (*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.pendingByActor[actorID]
	if !exists {
		return nil, nil
	}

	return copyApproval(r.records[id]), nil
}
