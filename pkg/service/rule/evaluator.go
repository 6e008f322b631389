// Package rule implements the business-rule evaluator: a pure,
// deterministic mapping from a classified action request to an approval
// requirement and an advisory risk level. No I/O happens here.
package rule

import (
	"fmt"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/model/config"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// repeatCustomerOrders is the order count above which a customer no
// longer contributes to the risk score at all.
const repeatCustomerOrders = 10

type Evaluator struct {
	rules *config.Rules
}

func New(rules *config.Rules) *Evaluator {
	if rules == nil {
		rules = config.DefaultRules()
	}
	return &Evaluator{rules: rules}
}

// Evaluate applies the full rule list to one request. Rules are fully
// evaluated, not short-circuited: every matching rule contributes its
// reason so the admin sees the complete picture.
func (x *Evaluator) Evaluate(req *model.ActionRequest) *model.Evaluation {
	reasons := x.approvalReasons(req)

	eval := &model.Evaluation{
		RequiresApproval: len(reasons) > 0,
		RiskLevel:        riskLevel(x.riskScore(req)),
		Reasons:          reasons,
	}

	// Low-confidence intents must never auto-execute, whatever their
	// kind. Conversational kinds are exempt: the deterministic fallback
	// classification (general_query, 0.3) must not trigger an approval.
	if !isConversational(req.Kind) && req.Confidence < x.rules.ConfidenceFloor {
		eval.RequiresApproval = true
		eval.NeedsClarification = true
		eval.Reasons = append(eval.Reasons,
			fmt.Sprintf("classifier confidence %.2f is below %.2f, clarification needed",
				req.Confidence, x.rules.ConfidenceFloor))
	}

	return eval
}

func isConversational(kind types.ActionKind) bool {
	return kind == types.ActionFollowUp || kind == types.ActionGeneralQuery
}

func (x *Evaluator) approvalReasons(req *model.ActionRequest) []string {
	var reasons []string
	amount := req.Entities.Amount

	switch req.Kind {
	case types.ActionCreateOrder, types.ActionRefund:
		if amount > x.rules.HighValueThreshold {
			reasons = append(reasons,
				fmt.Sprintf("amount %.2f exceeds high value threshold %.2f", amount, x.rules.HighValueThreshold))
		}
		if req.Kind == types.ActionRefund && amount > x.rules.RefundThreshold {
			reasons = append(reasons,
				fmt.Sprintf("refund amount %.2f exceeds refund threshold %.2f", amount, x.rules.RefundThreshold))
		}
		if qty := totalQuantity(req.Entities); qty > x.rules.BulkOrderThreshold {
			reasons = append(reasons,
				fmt.Sprintf("quantity %d exceeds bulk order threshold %d", qty, x.rules.BulkOrderThreshold))
		}
		if req.CustomerOrderCount < x.rules.NewCustomerOrderCount && amount > x.rules.NewCustomerAmount {
			reasons = append(reasons,
				fmt.Sprintf("new customer (%d orders) with amount %.2f above %.2f",
					req.CustomerOrderCount, amount, x.rules.NewCustomerAmount))
		}

	case types.ActionGenerateInvoice:
		if amount > x.rules.InvoiceThreshold {
			reasons = append(reasons,
				fmt.Sprintf("invoice amount %.2f exceeds invoice threshold %.2f", amount, x.rules.InvoiceThreshold))
		}

	case types.ActionSendPaymentReminder:
		// Outbound collection messaging always needs a human sign-off
		reasons = append(reasons, "payment reminders always require sign-off")

	case types.ActionUpdateInventory:
		if item, qty, found := firstOversizedItem(req.Entities, x.rules.InventoryQuantityThreshold); found {
			reasons = append(reasons,
				fmt.Sprintf("inventory change of %d for %q exceeds threshold %d",
					qty, item, x.rules.InventoryQuantityThreshold))
		}

	case types.ActionDataExport:
		reasons = append(reasons, "data exports always require sign-off")

	case types.ActionFollowUp, types.ActionGeneralQuery:
		// conversational, never gated
	}

	return reasons
}

// totalQuantity resolves the quantity of a request: the explicit
// quantity entity when present, otherwise the sum over line items.
func totalQuantity(e model.Entities) int {
	if e.Quantity > 0 {
		return e.Quantity
	}
	total := 0
	for _, item := range e.Items {
		total += item.Quantity
	}
	return total
}

func firstOversizedItem(e model.Entities, threshold int) (string, int, bool) {
	for _, item := range e.Items {
		if item.Quantity > threshold {
			return item.Name, item.Quantity, true
		}
	}
	if e.Quantity > threshold {
		return "", e.Quantity, true
	}
	return "", 0, false
}

// riskScore is a pure function of (amount, customerOrderCount, kind,
// urgent). It is monotonic: adding risk factors never lowers the score.
func (x *Evaluator) riskScore(req *model.ActionRequest) int {
	score := 0

	switch amount := req.Entities.Amount; {
	case amount > x.rules.HighValueThreshold:
		score += 3
	case amount > x.rules.NewCustomerAmount:
		score += 2
	case amount > x.rules.RefundThreshold:
		score += 1
	}

	switch {
	case req.CustomerOrderCount < x.rules.NewCustomerOrderCount:
		score += 2
	case req.CustomerOrderCount < repeatCustomerOrders:
		score += 1
	}

	if req.Kind == types.ActionRefund {
		score += 2
	}
	if req.Urgent {
		score++
	}

	return score
}

func riskLevel(score int) types.RiskLevel {
	switch {
	case score >= 5:
		return types.RiskLevelHigh
	case score >= 2:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}
