package rule_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/rule"
)

func newOrderRequest(amount float64, orderCount int) *model.ActionRequest {
	return &model.ActionRequest{
		ID:                 types.NewRequestID(),
		ActorID:            "actor-1",
		Channel:            types.ChannelTelegram,
		Kind:               types.ActionCreateOrder,
		Entities:           model.Entities{Amount: amount},
		Confidence:         0.9,
		CustomerOrderCount: orderCount,
		State:              types.RequestStateCreated,
	}
}

func TestEvaluate_HighValueBoundary(t *testing.T) {
	evaluator := rule.New(nil)

	// exactly at the threshold does not require approval (strict >)
	eval := evaluator.Evaluate(newOrderRequest(10000, 20))
	gt.Bool(t, eval.RequiresApproval).False()

	eval = evaluator.Evaluate(newOrderRequest(10001, 20))
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(1)
}

func TestEvaluate_ConfidenceBoundary(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(500, 20)
	req.Confidence = 0.6
	eval := evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()
	gt.Bool(t, eval.NeedsClarification).False()

	req.Confidence = 0.59
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Bool(t, eval.NeedsClarification).True()
}

func TestEvaluate_NewCustomer(t *testing.T) {
	evaluator := rule.New(nil)

	// 1 order < 3 and 6000 > 5000: approval via the new-customer rule,
	// risk score 2 (amount) + 2 (order count) = 4 -> medium
	eval := evaluator.Evaluate(newOrderRequest(6000, 1))
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(1)
	gt.Value(t, eval.RiskLevel).Equal(types.RiskLevelMedium)

	// an established customer with the same amount goes straight through
	eval = evaluator.Evaluate(newOrderRequest(6000, 12))
	gt.Bool(t, eval.RequiresApproval).False()
}

func TestEvaluate_Refund(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(800, 12)
	req.Kind = types.ActionRefund
	eval := evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()

	// the confidence override still applies to a below-threshold refund
	req.Confidence = 0.4
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Bool(t, eval.NeedsClarification).True()

	req = newOrderRequest(1500, 12)
	req.Kind = types.ActionRefund
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(1)
}

func TestEvaluate_ReasonsAreCollected(t *testing.T) {
	evaluator := rule.New(nil)

	// high value + bulk quantity + new customer all match at once
	req := newOrderRequest(12000, 0)
	req.Entities.Quantity = 80
	eval := evaluator.Evaluate(req)

	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(3)
	gt.Value(t, eval.RiskLevel).Equal(types.RiskLevelHigh)
}

func TestEvaluate_PaymentReminderAlwaysGated(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(50, 20)
	req.Kind = types.ActionSendPaymentReminder
	eval := evaluator.Evaluate(req)

	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(1)
}

func TestEvaluate_DataExportAlwaysGated(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(0, 20)
	req.Kind = types.ActionDataExport
	eval := evaluator.Evaluate(req)

	gt.Bool(t, eval.RequiresApproval).True()
}

func TestEvaluate_Invoice(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(1000, 20)
	req.Kind = types.ActionGenerateInvoice
	eval := evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()

	req.Entities.Amount = 1001
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).True()
}

func TestEvaluate_Inventory(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(0, 20)
	req.Kind = types.ActionUpdateInventory
	req.Entities.Items = []model.LineItem{
		{Name: "rice", Quantity: 40},
		{Name: "wheat", Quantity: 150},
	}
	eval := evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).True()
	gt.Array(t, eval.Reasons).Length(1)

	req.Entities.Items = []model.LineItem{{Name: "rice", Quantity: 100}}
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()
}

func TestEvaluate_ConversationalKindsNeverGated(t *testing.T) {
	evaluator := rule.New(nil)

	// the deterministic classifier fallback must pass through untouched
	fallback := model.FallbackClassification()
	req := model.NewActionRequest(&model.InboundMessage{
		ActorID: "actor-1",
		Channel: types.ChannelWeb,
		Text:    "what are your store hours?",
	}, fallback)

	eval := evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()
	gt.Bool(t, eval.NeedsClarification).False()

	req.Kind = types.ActionFollowUp
	eval = evaluator.Evaluate(req)
	gt.Bool(t, eval.RequiresApproval).False()
}

func TestEvaluate_Deterministic(t *testing.T) {
	evaluator := rule.New(nil)

	req := newOrderRequest(6000, 1)
	req.Urgent = true
	first := evaluator.Evaluate(req)
	for i := 0; i < 10; i++ {
		again := evaluator.Evaluate(req)
		gt.Value(t, again.RequiresApproval).Equal(first.RequiresApproval)
		gt.Value(t, again.RiskLevel).Equal(first.RiskLevel)
		gt.Array(t, again.Reasons).Equal(first.Reasons)
	}
}

func TestRiskLevel_Urgent(t *testing.T) {
	evaluator := rule.New(nil)

	// 6000 (+2), new customer (+2), urgent (+1) = 5 -> high
	req := newOrderRequest(6000, 1)
	req.Urgent = true
	eval := evaluator.Evaluate(req)
	gt.Value(t, eval.RiskLevel).Equal(types.RiskLevelHigh)

	// refund weight: 800 (-), repeat customer (+1), refund (+2) = 3 -> medium
	req = newOrderRequest(800, 5)
	req.Kind = types.ActionRefund
	eval = evaluator.Evaluate(req)
	gt.Value(t, eval.RiskLevel).Equal(types.RiskLevelMedium)
}
