package usecase_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// seedRequest stores a request directly so executor behavior can be
// tested without the classification pipeline.
func seedRequest(t *testing.T, env *testEnv, kind types.ActionKind, entities model.Entities) *model.ActionRequest {
	t.Helper()
	req := &model.ActionRequest{
		ID:         types.NewRequestID(),
		ActorID:    "telegram:42",
		Channel:    types.ChannelTelegram,
		Kind:       kind,
		Entities:   entities,
		Confidence: 0.9,
		State:      types.RequestStateCreated,
	}
	created, err := env.repo.Request().Create(context.Background(), req)
	gt.NoError(t, err).Required()
	return created
}

func TestExecute_Idempotent(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()
	req := seedRequest(t, env, types.ActionCreateOrder, model.Entities{
		Amount: 750,
		Items:  []model.LineItem{{Name: "sugar", Quantity: 3, UnitPrice: 250}},
	})

	first, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, first.Succeeded()).True()

	second, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, second.Ref).Equal(first.Ref)
	gt.Value(t, second.ExecutedAt).Equal(first.ExecutedAt)

	// exactly one order despite two execute calls
	orders, err := env.store.ListOrdersByCustomer(ctx, "telegram:42")
	gt.NoError(t, err).Required()
	gt.Array(t, orders).Length(1)
}

func TestExecute_FailureCached(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()
	req := seedRequest(t, env, types.ActionRefund, model.Entities{
		Amount:        500,
		TargetOrderID: "no-such-order",
	})

	first, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, first.Succeeded()).False()
	gt.Value(t, first.Detail).NotEqual("")

	// a failed dispatch is final for this request
	second, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, second.Status).Equal(types.ExecutionStatusFailed)
	gt.Value(t, second.ExecutedAt).Equal(first.ExecutedAt)
}

func TestExecute_Refund(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()

	order, err := env.store.CreateOrder(ctx, &model.Order{CustomerID: "telegram:42", Amount: 1200})
	gt.NoError(t, err).Required()

	req := seedRequest(t, env, types.ActionRefund, model.Entities{TargetOrderID: order.ID})
	result, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()
	gt.Value(t, result.Ref).Equal(order.ID)

	got, err := env.store.GetOrder(ctx, order.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status).Equal(model.OrderStatusRefunded)
}

func TestExecute_GenerateInvoice(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()
	req := seedRequest(t, env, types.ActionGenerateInvoice, model.Entities{Amount: 900})

	result, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()

	invoices, err := env.store.ListInvoicesByCustomer(ctx, "telegram:42")
	gt.NoError(t, err).Required()
	gt.Array(t, invoices).Length(1)
	gt.Value(t, invoices[0].ID).Equal(result.Ref)
}

func TestExecute_SendReminder(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()
	req := seedRequest(t, env, types.ActionSendPaymentReminder, model.Entities{Amount: 450})

	result, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()

	texts := env.adapter.sentTexts()
	gt.Array(t, texts).Length(1)
	gt.Bool(t, strings.Contains(texts[0], "450")).True()
}

func TestExecute_UpdateInventory(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()

	gt.NoError(t, env.store.AdjustInventory(ctx, []model.LineItem{{Name: "rice", Quantity: 100}})).Required()

	req := seedRequest(t, env, types.ActionUpdateInventory, model.Entities{
		Items: []model.LineItem{{Name: "rice", Quantity: -40}},
	})
	result, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()

	item, ok := env.store.Inventory("rice")
	gt.Bool(t, ok).True()
	gt.Value(t, item.Quantity).Equal(60)
}

func TestExecute_DataExport(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()

	_, err := env.store.CreateOrder(ctx, &model.Order{CustomerID: "telegram:42", Amount: 300})
	gt.NoError(t, err).Required()

	req := seedRequest(t, env, types.ActionDataExport, model.Entities{})
	result, err := env.uc.Execute(ctx, req.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()
	gt.Value(t, result.Ref).NotEqual("")

	data, err := os.ReadFile(result.Ref)
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(string(data), "telegram:42")).True()
}

func TestExecute_FollowUp(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())
	ctx := context.Background()

	noOrders := seedRequest(t, env, types.ActionFollowUp, model.Entities{})
	result, err := env.uc.Execute(ctx, noOrders.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Succeeded()).True()
	gt.Bool(t, strings.Contains(result.Detail, "no orders")).True()

	order, err := env.store.CreateOrder(ctx, &model.Order{CustomerID: "telegram:42", Amount: 800})
	gt.NoError(t, err).Required()

	withOrders := seedRequest(t, env, types.ActionFollowUp, model.Entities{})
	result, err = env.uc.Execute(ctx, withOrders.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Ref).Equal(order.ID)
}

func TestExecute_UnknownRequest(t *testing.T) {
	env := newTestEnv(t, newOrderClassifier())

	_, err := env.uc.Execute(context.Background(), "no-such-request")
	gt.Value(t, err).NotNil()
}
