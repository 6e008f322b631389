package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/usecase"
)

func TestHandleInbound_AutoExecute(t *testing.T) {
	classifier := &mockClassifier{classification: &model.Classification{
		Intent:         types.ActionCreateOrder,
		ProposedAction: types.ActionCreateOrder,
		Confidence:     0.92,
		Entities: model.Entities{
			Amount: 500,
			Items:  []model.LineItem{{Name: "rice", Quantity: 5, UnitPrice: 100}},
		},
	}}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	result, err := env.uc.HandleInbound(ctx, inbound("telegram:100", "5 bags of rice please"))
	gt.NoError(t, err).Required()
	gt.Value(t, result.Approval).Nil()
	gt.Value(t, result.Execution).NotNil()
	gt.Bool(t, result.Execution.Succeeded()).True()

	req, err := env.repo.Request().Get(ctx, result.Request.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, req.State).Equal(types.RequestStateExecuted)

	orders, err := env.store.ListOrdersByCustomer(ctx, "telegram:100")
	gt.NoError(t, err).Required()
	gt.Array(t, orders).Length(1)
	gt.Value(t, orders[0].ID).Equal(result.Execution.Ref)

	// low-risk path never posts to the admin console
	gt.Value(t, env.slack.postCount()).Equal(0)
}

func TestHandleInbound_GatedNewCustomer(t *testing.T) {
	classifier := &mockClassifier{classification: &model.Classification{
		Intent:         types.ActionCreateOrder,
		ProposedAction: types.ActionCreateOrder,
		Confidence:     0.9,
		Entities:       model.Entities{Amount: 6000},
	}}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	result, err := env.uc.HandleInbound(ctx, inbound("telegram:200", "order for 6000"))
	gt.NoError(t, err).Required()
	gt.Value(t, result.Reply).Equal(usecase.MsgSubmitted)
	gt.Value(t, result.Approval).NotNil()
	gt.Value(t, result.Approval.Status).Equal(types.ApprovalStatusPending)
	gt.Value(t, result.Approval.Priority).Equal(types.RiskLevelMedium)
	gt.Array(t, result.Approval.Reasons).Length(1)

	req, err := env.repo.Request().Get(ctx, result.Request.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, req.State).Equal(types.RequestStateAwaitingApproval)

	// nothing executed yet
	orders, err := env.store.ListOrdersByCustomer(ctx, "telegram:200")
	gt.NoError(t, err).Required()
	gt.Array(t, orders).Length(0)

	// console message posted and its reference stored
	gt.Value(t, env.slack.postCount()).Equal(1)
	rec, err := env.repo.Approval().Get(ctx, result.Approval.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, rec.SlackChannelID).Equal("C-ADMIN")
	gt.Value(t, rec.SlackMessageTS).NotEqual("")
}

func TestHandleInbound_LockedActor(t *testing.T) {
	classifier := &mockClassifier{classification: &model.Classification{
		Intent:         types.ActionCreateOrder,
		ProposedAction: types.ActionCreateOrder,
		Confidence:     0.9,
		Entities:       model.Entities{Amount: 6000},
	}}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	first, err := env.uc.HandleInbound(ctx, inbound("telegram:300", "order for 6000"))
	gt.NoError(t, err).Required()
	gt.Value(t, first.Approval).NotNil()

	callsBefore := classifier.callCount()
	second, err := env.uc.HandleInbound(ctx, inbound("telegram:300", "another order"))
	gt.NoError(t, err).Required()
	gt.Value(t, second.Reply).Equal(usecase.MsgPleaseWait)
	gt.Value(t, second.Request).Nil()

	// rejected before classification, and recorded in the audit trail
	gt.Value(t, classifier.callCount()).Equal(callsBefore)
	entries, err := env.repo.Audit().ListByActor(ctx, "telegram:300", 10)
	gt.NoError(t, err).Required()
	gt.Value(t, entries[0].Event).Equal(types.AuditEventRequestLocked)

	// other actors are unaffected
	other, err := env.uc.HandleInbound(ctx, inbound("telegram:301", "order for 6000"))
	gt.NoError(t, err).Required()
	gt.Value(t, other.Reply).Equal(usecase.MsgSubmitted)
}

func TestHandleInbound_ClassifierFailure(t *testing.T) {
	classifier := &mockClassifier{err: errors.New("model timeout")}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	result, err := env.uc.HandleInbound(ctx, inbound("telegram:400", "gibberish"))
	gt.NoError(t, err).Required()
	gt.Value(t, result.Reply).Equal(usecase.MsgHavingTrouble)
	gt.Value(t, result.Approval).Nil()
	gt.Value(t, result.Execution).Nil()

	// the fallback classification is recorded, not executed
	req, err := env.repo.Request().Get(ctx, result.Request.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, req.Kind).Equal(types.ActionGeneralQuery)
	gt.Value(t, req.Confidence).Equal(0.3)
	gt.Value(t, req.State).Equal(types.RequestStateCreated)

	entries, err := env.repo.Audit().ListByActor(ctx, "telegram:400", 10)
	gt.NoError(t, err).Required()
	gt.Value(t, entries[0].Event).Equal(types.AuditEventClassificationFailed)

	// the actor is not locked afterwards
	pending, err := env.repo.Approval().GetPendingByActor(ctx, "telegram:400")
	gt.NoError(t, err).Required()
	gt.Value(t, pending).Nil()
}

func TestHandleInbound_Clarification(t *testing.T) {
	classifier := &mockClassifier{classification: &model.Classification{
		Intent:         types.ActionRefund,
		ProposedAction: types.ActionRefund,
		Confidence:     0.4,
		Entities:       model.Entities{Amount: 800, TargetOrderID: "ord-1"},
	}}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	result, err := env.uc.HandleInbound(ctx, inbound("telegram:500", "maybe refund something?"))
	gt.NoError(t, err).Required()
	gt.Value(t, result.Reply).Equal(usecase.MsgClarification)
	gt.Value(t, result.Approval).Nil()

	// no approval, no lock: a clearer follow-up goes straight through
	pending, err := env.repo.Approval().GetPendingByActor(ctx, "telegram:500")
	gt.NoError(t, err).Required()
	gt.Value(t, pending).Nil()

	entries, err := env.repo.Audit().ListByActor(ctx, "telegram:500", 10)
	gt.NoError(t, err).Required()
	gt.Value(t, entries[0].Event).Equal(types.AuditEventClarificationRequired)
}

func TestHandleInbound_InvalidMessage(t *testing.T) {
	classifier := &mockClassifier{classification: &model.Classification{
		Intent:         types.ActionGeneralQuery,
		ProposedAction: types.ActionGeneralQuery,
		Confidence:     0.9,
	}}
	env := newTestEnv(t, classifier)
	ctx := context.Background()

	_, err := env.uc.HandleInbound(ctx, &model.InboundMessage{Channel: types.ChannelTelegram, Text: "hi"})
	gt.Value(t, err).NotNil()

	_, err = env.uc.HandleInbound(ctx, &model.InboundMessage{ActorID: "telegram:600", Channel: "carrier-pigeon", Text: "hi"})
	gt.Value(t, err).NotNil()
}
