package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/repository/memory"
)

func newTestRequest(actorID types.ActorID) *model.ActionRequest {
	return &model.ActionRequest{
		ActorID: actorID,
		Channel: types.ChannelTelegram,
		Kind:    types.ActionCreateOrder,
		Entities: model.Entities{
			Amount:       1200,
			CustomerName: "Ramesh",
		},
		Confidence: 0.92,
		SourceText: "2 bags of rice for Ramesh",
	}
}

func runRequestRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and initial state", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Request().Create(ctx, newTestRequest("req-actor-1"))
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID.String()).NotEqual("")
		gt.Value(t, created.State).Equal(types.RequestStateCreated)

		got, err := repo.Request().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Kind).Equal(types.ActionCreateOrder)
		gt.Value(t, got.Entities.CustomerName).Equal("Ramesh")
	})

	t.Run("Get fails for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Request().Get(ctx, types.NewRequestID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("UpdateState follows the state machine", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Request().Create(ctx, newTestRequest("req-actor-2"))
		gt.NoError(t, err).Required()

		updated, err := repo.Request().UpdateState(ctx, created.ID, types.RequestStateAwaitingApproval)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.State).Equal(types.RequestStateAwaitingApproval)

		updated, err = repo.Request().UpdateState(ctx, created.ID, types.RequestStateApproved)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.State).Equal(types.RequestStateApproved)
	})

	t.Run("UpdateState rejects invalid transitions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Request().Create(ctx, newTestRequest("req-actor-3"))
		gt.NoError(t, err).Required()

		// CREATED cannot jump straight to EXECUTED
		_, err = repo.Request().UpdateState(ctx, created.ID, types.RequestStateExecuted)
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, interfaces.ErrInvalidTransition)).True()

		// stored state must be untouched
		got, err := repo.Request().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.State).Equal(types.RequestStateCreated)
	})

	t.Run("UpdateState rejects leaving a terminal state", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Request().Create(ctx, newTestRequest("req-actor-4"))
		gt.NoError(t, err).Required()

		_, err = repo.Request().UpdateState(ctx, created.ID, types.RequestStateAwaitingApproval)
		gt.NoError(t, err).Required()
		_, err = repo.Request().UpdateState(ctx, created.ID, types.RequestStateRejected)
		gt.NoError(t, err).Required()

		_, err = repo.Request().UpdateState(ctx, created.ID, types.RequestStateExecuting)
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, interfaces.ErrInvalidTransition)).True()
	})

	t.Run("ListByActor returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := newTestRequest("req-actor-5")
		first.CreatedAt = time.Now().UTC().Add(-2 * time.Minute)
		_, err := repo.Request().Create(ctx, first)
		gt.NoError(t, err).Required()

		second := newTestRequest("req-actor-5")
		second.CreatedAt = time.Now().UTC().Add(-1 * time.Minute)
		second.Kind = types.ActionGenerateInvoice
		_, err = repo.Request().Create(ctx, second)
		gt.NoError(t, err).Required()

		// another actor's request must not leak in
		_, err = repo.Request().Create(ctx, newTestRequest("req-actor-6"))
		gt.NoError(t, err).Required()

		requests, err := repo.Request().ListByActor(ctx, "req-actor-5", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, requests).Length(2)
		gt.Value(t, requests[0].Kind).Equal(types.ActionGenerateInvoice)
		gt.Value(t, requests[1].Kind).Equal(types.ActionCreateOrder)

		limited, err := repo.Request().ListByActor(ctx, "req-actor-5", 1)
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(1)
	})
}

func TestRequestRepository_Memory(t *testing.T) {
	runRequestRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestRequestRepository_Firestore(t *testing.T) {
	runRequestRepositoryTest(t, newFirestoreRepo)
}
