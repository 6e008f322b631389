package interfaces

import (
	"context"
	"time"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// ApprovalRepository defines the interface for ApprovalRecord data
// access. Implementations must make Resolve and the lock release of
// the same actor observable atomically (single mutex or transaction),
// so a new message can never acquire the lock before the resolution is
// visible.
type ApprovalRepository interface {
	// Create stores a new pending record. Fails with ErrPendingExists
	// when an unresolved record already exists for the actor. This is a
	// defensive second check; callers must hold the actor's lock.
	Create(ctx context.Context, rec *model.ApprovalRecord) (*model.ApprovalRecord, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id types.ApprovalID) (*model.ApprovalRecord, error)

	// Resolve transitions a pending record to a terminal status, stamps
	// ResolvedBy/ResolvedAt and releases the actor's lock in the same
	// logical operation. Fails with ErrNotFound for unknown IDs and
	// ErrAlreadyResolved for non-pending records.
	Resolve(ctx context.Context, id types.ApprovalID, decision types.Decision, resolvedBy string) (*model.ApprovalRecord, error)

	// SetSlackMessage stores the admin console message reference so the
	// message can be updated when the record is resolved
	SetSlackMessage(ctx context.Context, id types.ApprovalID, channelID, timestamp string) error

	// MarkExecuted stamps ExecutedAt after successful post-approval
	// execution
	MarkExecuted(ctx context.Context, id types.ApprovalID, at time.Time) error

	// MarkExecutionFailed attaches a failure detail, leaving ExecutedAt
	// unset
	MarkExecutionFailed(ctx context.Context, id types.ApprovalID, detail string) error

	// ListPending returns pending records ordered by priority desc,
	// createdAt asc (oldest first within a tier, preventing starvation)
	ListPending(ctx context.Context, limit, offset int) ([]*model.ApprovalRecord, error)

	// CountPending returns the number of pending records
	CountPending(ctx context.Context) (int, error)

	// GetPendingByActor returns the actor's current pending record.
	// Returns nil, nil when the actor has none.
	GetPendingByActor(ctx context.Context, actorID types.ActorID) (*model.ApprovalRecord, error)
}

// ActionLock is the per-actor mutual exclusion guard. Acquiring for one
// actor never blocks other actors.
type ActionLock interface {
	// TryAcquire atomically acquires the actor's lock. Returns false
	// when the lock is already held.
	TryAcquire(ctx context.Context, actorID types.ActorID) (bool, error)

	// Release releases the actor's lock. Releasing an unheld lock is a
	// no-op.
	Release(ctx context.Context, actorID types.ActorID) error
}
