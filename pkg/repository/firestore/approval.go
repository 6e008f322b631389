package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type approvalRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newApprovalRepository(client *firestore.Client) *approvalRepository {
	return &approvalRepository{client: client}
}

func (r *approvalRepository) approvalsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_approvals"
	}
	return "approvals"
}

func (r *approvalRepository) locksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_locks"
	}
	return "locks"
}

// approvalDoc is the stored form of an ApprovalRecord. PriorityWeight
// is denormalized so the pending queue can be ordered server-side
// (priority desc, createdAt asc) with a composite index.
type approvalDoc struct {
	ID             string
	RequestID      string
	ActorID        string
	Status         string
	Priority       string
	PriorityWeight int
	Reasons        []string
	ResolvedBy     string
	ResolvedAt     *time.Time
	SlackChannelID string
	SlackMessageTS string
	ExecutedAt     *time.Time
	FailureDetail  string
	CreatedAt      time.Time
}

func toApprovalDoc(a *model.ApprovalRecord) *approvalDoc {
	return &approvalDoc{
		ID:             a.ID.String(),
		RequestID:      a.RequestID.String(),
		ActorID:        a.ActorID.String(),
		Status:         a.Status.String(),
		Priority:       a.Priority.String(),
		PriorityWeight: a.Priority.Weight(),
		Reasons:        a.Reasons,
		ResolvedBy:     a.ResolvedBy,
		ResolvedAt:     a.ResolvedAt,
		SlackChannelID: a.SlackChannelID,
		SlackMessageTS: a.SlackMessageTS,
		ExecutedAt:     a.ExecutedAt,
		FailureDetail:  a.FailureDetail,
		CreatedAt:      a.CreatedAt,
	}
}

func (d *approvalDoc) toModel() *model.ApprovalRecord {
	return &model.ApprovalRecord{
		ID:             types.ApprovalID(d.ID),
		RequestID:      types.RequestID(d.RequestID),
		ActorID:        types.ActorID(d.ActorID),
		Status:         types.ApprovalStatus(d.Status),
		Priority:       types.RiskLevel(d.Priority),
		Reasons:        d.Reasons,
		ResolvedBy:     d.ResolvedBy,
		ResolvedAt:     d.ResolvedAt,
		SlackChannelID: d.SlackChannelID,
		SlackMessageTS: d.SlackMessageTS,
		ExecutedAt:     d.ExecutedAt,
		FailureDetail:  d.FailureDetail,
		CreatedAt:      d.CreatedAt,
	}
}

func (r *approvalRepository) TryAcquire(ctx context.Context, actorID types.ActorID) (bool, error) {
	lockRef := r.client.Collection(r.locksCollection()).Doc(actorID.String())

	acquired := false
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(lockRef)
		if err == nil {
			acquired = false
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check lock", goerr.V("actor_id", actorID))
		}

		acquired = true
		return tx.Create(lockRef, map[string]interface{}{
			"ActorID":    actorID.String(),
			"AcquiredAt": time.Now().UTC(),
		})
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to acquire lock", goerr.V("actor_id", actorID))
	}

	return acquired, nil
}

func (r *approvalRepository) Release(ctx context.Context, actorID types.ActorID) error {
	_, err := r.client.Collection(r.locksCollection()).Doc(actorID.String()).Delete(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to release lock", goerr.V("actor_id", actorID))
	}
	return nil
}

func (r *approvalRepository) Create(ctx context.Context, rec *model.ApprovalRecord) (*model.ApprovalRecord, error) {
	created := *rec
	if created.ID == "" {
		created.ID = types.NewApprovalID()
	}
	created.Status = types.ApprovalStatusPending
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.approvalsCollection()).Doc(created.ID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Defensive duplicate-pending check inside the transaction
		pendingQuery := r.client.Collection(r.approvalsCollection()).
			Where("ActorID", "==", created.ActorID.String()).
			Where("Status", "==", types.ApprovalStatusPending.String()).
			Limit(1)
		iter := tx.Documents(pendingQuery)
		defer iter.Stop()

		if _, err := iter.Next(); err != iterator.Done {
			if err == nil {
				return goerr.Wrap(interfaces.ErrPendingExists, "actor already has a pending approval",
					goerr.V("actor_id", created.ActorID))
			}
			return goerr.Wrap(err, "failed to query pending approvals", goerr.V("actor_id", created.ActorID))
		}

		return tx.Create(docRef, toApprovalDoc(&created))
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *approvalRepository) Get(ctx context.Context, id types.ApprovalID) (*model.ApprovalRecord, error) {
	docSnap, err := r.client.Collection(r.approvalsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get approval", goerr.V("approval_id", id))
	}

	var doc approvalDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode approval", goerr.V("approval_id", id))
	}

	return doc.toModel(), nil
}

func (r *approvalRepository) Resolve(ctx context.Context, id types.ApprovalID, decision types.Decision, resolvedBy string) (*model.ApprovalRecord, error) {
	docRef := r.client.Collection(r.approvalsCollection()).Doc(id.String())

	var resolved *model.ApprovalRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
			}
			return goerr.Wrap(err, "failed to get approval", goerr.V("approval_id", id))
		}

		var doc approvalDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to decode approval", goerr.V("approval_id", id))
		}

		if types.ApprovalStatus(doc.Status) != types.ApprovalStatusPending {
			return goerr.Wrap(interfaces.ErrAlreadyResolved, "approval is not pending",
				goerr.V("approval_id", id), goerr.V("status", doc.Status))
		}
		if !decision.IsTerminal() {
			return goerr.New("decision must be terminal",
				goerr.V("approval_id", id), goerr.V("decision", decision))
		}

		now := time.Now().UTC()
		doc.Status = decision.String()
		doc.ResolvedBy = resolvedBy
		doc.ResolvedAt = &now
		resolved = doc.toModel()

		if err := tx.Update(docRef, []firestore.Update{
			{Path: "Status", Value: doc.Status},
			{Path: "ResolvedBy", Value: doc.ResolvedBy},
			{Path: "ResolvedAt", Value: doc.ResolvedAt},
		}); err != nil {
			return goerr.Wrap(err, "failed to update approval", goerr.V("approval_id", id))
		}

		// Release the actor's lock in the same transaction so the
		// resolution and the release become visible atomically.
		lockRef := r.client.Collection(r.locksCollection()).Doc(doc.ActorID)
		return tx.Delete(lockRef)
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

func (r *approvalRepository) SetSlackMessage(ctx context.Context, id types.ApprovalID, channelID, timestamp string) error {
	_, err := r.client.Collection(r.approvalsCollection()).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "SlackChannelID", Value: channelID},
		{Path: "SlackMessageTS", Value: timestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
		}
		return goerr.Wrap(err, "failed to set slack message reference", goerr.V("approval_id", id))
	}
	return nil
}

func (r *approvalRepository) MarkExecuted(ctx context.Context, id types.ApprovalID, at time.Time) error {
	_, err := r.client.Collection(r.approvalsCollection()).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "ExecutedAt", Value: at.UTC()},
		{Path: "FailureDetail", Value: ""},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
		}
		return goerr.Wrap(err, "failed to mark approval executed", goerr.V("approval_id", id))
	}
	return nil
}

func (r *approvalRepository) MarkExecutionFailed(ctx context.Context, id types.ApprovalID, detail string) error {
	_, err := r.client.Collection(r.approvalsCollection()).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "FailureDetail", Value: detail},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "approval not found", goerr.V("approval_id", id))
		}
		return goerr.Wrap(err, "failed to mark approval execution failed", goerr.V("approval_id", id))
	}
	return nil
}

func (r *approvalRepository) ListPending(ctx context.Context, limit, offset int) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("Status", "==", types.ApprovalStatusPending.String()).
		OrderBy("PriorityWeight", firestore.Desc).
		OrderBy("CreatedAt", firestore.Asc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := make([]*model.ApprovalRecord, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate pending approvals")
		}

		var doc approvalDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode approval", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, doc.toModel())
	}

	return records, nil
}

func (r *approvalRepository) CountPending(ctx context.Context) (int, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("Status", "==", types.ApprovalStatusPending.String())
	result, err := query.NewAggregationQuery().
		WithCount("count").
		Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count pending approvals")
	}

	countValue, ok := result["count"]
	if !ok {
		return 0, goerr.New("count not found in aggregation result")
	}

	count, ok := countValue.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected aggregation result type", goerr.V("value", countValue))
	}

	return int(count.GetIntegerValue()), nil
}

func (r *approvalRepository) GetPendingByActor(ctx context.Context, actorID types.ActorID) (*model.ApprovalRecord, error) {
	iter := r.client.Collection(r.approvalsCollection()).
		Where("ActorID", "==", actorID.String()).
		Where("Status", "==", types.ApprovalStatusPending.String()).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query pending approval", goerr.V("actor_id", actorID))
	}

	var doc approvalDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode approval", goerr.V("actor_id", actorID))
	}

	return doc.toModel(), nil
}
