package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type auditRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAuditRepository(client *firestore.Client) *auditRepository {
	return &auditRepository{client: client}
}

func (r *auditRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_audit"
	}
	return "audit"
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	stored := *entry
	if stored.ID == "" {
		stored.ID = types.NewAuditID()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	// Create, never Set: audit entries are append-only
	_, err := r.client.Collection(r.collection()).Doc(stored.ID.String()).Create(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to append audit entry", goerr.V("audit_id", stored.ID))
	}
	return nil
}

func (r *auditRepository) ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.AuditEntry, error) {
	query := r.client.Collection(r.collection()).
		Where("ActorID", "==", actorID.String()).
		OrderBy("Timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.runQuery(ctx, query)
}

func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]*model.AuditEntry, error) {
	query := r.client.Collection(r.collection()).
		OrderBy("Timestamp", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.runQuery(ctx, query)
}

func (r *auditRepository) runQuery(ctx context.Context, query firestore.Query) ([]*model.AuditEntry, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	entries := make([]*model.AuditEntry, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit entries")
		}

		var entry model.AuditEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit entry", goerr.V("doc_id", docSnap.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
