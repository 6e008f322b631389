package memory

import (
	"context"
	"sync"
	"time"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

type auditRepository struct {
	mu      sync.RWMutex
	entries []*model.AuditEntry
}

func newAuditRepository() *auditRepository {
	return &auditRepository{}
}

func copyAuditEntry(e *model.AuditEntry) *model.AuditEntry {
	copied := *e
	if e.Detail != nil {
		copied.Detail = make(map[string]any, len(e.Detail))
		for k, v := range e.Detail {
			copied.Detail[k] = v
		}
	}
	return &copied
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyAuditEntry(entry)
	if stored.ID == "" {
		stored.ID = types.NewAuditID()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	r.entries = append(r.entries, stored)
	return nil
}

func (r *auditRepository) ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.AuditEntry, 0)
	// entries are appended in time order; walk backwards for newest first
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ActorID == actorID {
			result = append(result, copyAuditEntry(r.entries[i]))
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}

	return result, nil
}

func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]*model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.AuditEntry, 0)
	for i := len(r.entries) - 1 - offset; i >= 0; i-- {
		result = append(result, copyAuditEntry(r.entries[i]))
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
