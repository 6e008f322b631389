package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxTurnsPerActor bounds the rolling conversation history
const maxTurnsPerActor = 20

type historyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_histories"
	}
	return "histories"
}

type historyDoc struct {
	ActorID string
	Turns   []model.ConversationTurn
}

func (r *historyRepository) Append(ctx context.Context, actorID types.ActorID, turn model.ConversationTurn) error {
	docRef := r.client.Collection(r.collection()).Doc(actorID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var doc historyDoc
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get history", goerr.V("actor_id", actorID))
			}
			doc = historyDoc{ActorID: actorID.String()}
		} else if err := docSnap.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to decode history", goerr.V("actor_id", actorID))
		}

		doc.Turns = append(doc.Turns, turn)
		if len(doc.Turns) > maxTurnsPerActor {
			doc.Turns = doc.Turns[len(doc.Turns)-maxTurnsPerActor:]
		}

		return tx.Set(docRef, &doc)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to append history turn", goerr.V("actor_id", actorID))
	}
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, actorID types.ActorID, limit int) ([]model.ConversationTurn, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(actorID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []model.ConversationTurn{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get history", goerr.V("actor_id", actorID))
	}

	var doc historyDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode history", goerr.V("actor_id", actorID))
	}

	turns := doc.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	return turns, nil
}
