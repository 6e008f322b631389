package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type requestRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRequestRepository(client *firestore.Client) *requestRepository {
	return &requestRepository{client: client}
}

func (r *requestRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_requests"
	}
	return "requests"
}

func (r *requestRepository) Create(ctx context.Context, req *model.ActionRequest) (*model.ActionRequest, error) {
	created := *req
	if created.ID == "" {
		created.ID = types.NewRequestID()
	}
	if created.State == "" {
		created.State = types.RequestStateCreated
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Create(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("request_id", created.ID))
	}

	return &created, nil
}

func (r *requestRepository) Get(ctx context.Context, id types.RequestID) (*model.ActionRequest, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("request_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get request", goerr.V("request_id", id))
	}

	var req model.ActionRequest
	if err := docSnap.DataTo(&req); err != nil {
		return nil, goerr.Wrap(err, "failed to decode request", goerr.V("request_id", id))
	}

	return &req, nil
}

func (r *requestRepository) UpdateState(ctx context.Context, id types.RequestID, next types.RequestState) (*model.ActionRequest, error) {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	var updated model.ActionRequest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "request not found", goerr.V("request_id", id))
			}
			return goerr.Wrap(err, "failed to get request", goerr.V("request_id", id))
		}

		var req model.ActionRequest
		if err := docSnap.DataTo(&req); err != nil {
			return goerr.Wrap(err, "failed to decode request", goerr.V("request_id", id))
		}

		if !req.State.CanTransitionTo(next) {
			return goerr.Wrap(interfaces.ErrInvalidTransition, "cannot transition request state",
				goerr.V("request_id", id), goerr.V("from", req.State), goerr.V("to", next))
		}

		req.State = next
		updated = req
		return tx.Update(docRef, []firestore.Update{
			{Path: "State", Value: string(next)},
		})
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *requestRepository) ListByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.ActionRequest, error) {
	query := r.client.Collection(r.collection()).
		Where("ActorID", "==", actorID.String()).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	requests := make([]*model.ActionRequest, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate requests", goerr.V("actor_id", actorID))
		}

		var req model.ActionRequest
		if err := docSnap.DataTo(&req); err != nil {
			return nil, goerr.Wrap(err, "failed to decode request", goerr.V("doc_id", docSnap.Ref.ID))
		}
		requests = append(requests, &req)
	}

	return requests, nil
}
