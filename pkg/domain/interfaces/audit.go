package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append stores an entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *model.AuditEntry) error

	// ListByActor retrieves entries of one actor, newest first
	ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.AuditEntry, error)

	// List retrieves entries across actors, newest first
	List(ctx context.Context, limit, offset int) ([]*model.AuditEntry, error)
}
