package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/utils/errutil"
)

// Execute performs the side effect of a request, exactly once. The
// execution cache is checked first and written last, so re-running an
// already executed request returns the stored result without touching
// the business store again. Failed dispatches are cached too; a retry
// needs a fresh request.
func (uc *UseCases) Execute(ctx context.Context, requestID types.RequestID) (*model.ExecutionResult, error) {
	if cached, err := uc.repo.Execution().Get(ctx, requestID); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	req, err := uc.repo.Request().Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result := &model.ExecutionResult{
		RequestID:  req.ID,
		Status:     types.ExecutionStatusSuccess,
		ExecutedAt: time.Now().UTC(),
	}

	if err := uc.dispatch(ctx, req, result); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "dispatch failed",
			goerr.V("request_id", req.ID), goerr.V("kind", req.Kind)), "execution dispatch failed")
		result.Status = types.ExecutionStatusFailed
		result.Detail = err.Error()
	}

	if err := uc.repo.Execution().Put(ctx, result); err != nil {
		// Lost the write-once race: another runner already stored a
		// result for this request. Theirs wins.
		if errors.Is(err, interfaces.ErrResultExists) {
			return uc.repo.Execution().Get(ctx, requestID)
		}
		return nil, err
	}

	return result, nil
}

func (uc *UseCases) dispatch(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	switch req.Kind {
	case types.ActionCreateOrder:
		return uc.executeCreateOrder(ctx, req, result)
	case types.ActionGenerateInvoice:
		return uc.executeGenerateInvoice(ctx, req, result)
	case types.ActionSendPaymentReminder:
		return uc.executeSendReminder(ctx, req, result)
	case types.ActionUpdateInventory:
		return uc.executeUpdateInventory(ctx, req, result)
	case types.ActionRefund:
		return uc.executeRefund(ctx, req, result)
	case types.ActionDataExport:
		return uc.executeDataExport(ctx, req, result)
	case types.ActionFollowUp:
		return uc.executeFollowUp(ctx, req, result)
	case types.ActionGeneralQuery:
		result.Detail = "Thanks for reaching out! Let me know if you'd like to place an order, check an invoice, or anything else."
		return nil
	default:
		return goerr.New("no executor for action kind", goerr.V("kind", req.Kind))
	}
}

func (uc *UseCases) executeCreateOrder(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	order, err := uc.store.CreateOrder(ctx, &model.Order{
		CustomerID: req.ActorID,
		Items:      req.Entities.Items,
		Amount:     req.Entities.Amount,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create order")
	}
	result.Ref = order.ID
	result.Detail = fmt.Sprintf("Order %s has been placed for %.2f.", order.ID, order.Amount)
	return nil
}

func (uc *UseCases) executeGenerateInvoice(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	invoice, err := uc.store.CreateInvoice(ctx, &model.Invoice{
		CustomerID: req.ActorID,
		OrderID:    req.Entities.TargetOrderID,
		Amount:     req.Entities.Amount,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create invoice")
	}
	result.Ref = invoice.ID
	result.Detail = fmt.Sprintf("Invoice %s for %.2f has been issued.", invoice.ID, invoice.Amount)
	return nil
}

func (uc *UseCases) executeSendReminder(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	text := fmt.Sprintf("Friendly reminder: a payment of %.2f is outstanding. Please settle it at your convenience.", req.Entities.Amount)
	if req.Entities.Amount <= 0 {
		text = "Friendly reminder: you have an outstanding payment. Please settle it at your convenience."
	}

	adapter, err := uc.channels.Get(req.Channel)
	if err != nil {
		return err
	}
	if err := adapter.Send(ctx, req.ActorID, text); err != nil {
		return goerr.Wrap(err, "failed to send payment reminder")
	}
	result.Detail = "Payment reminder sent."
	return nil
}

func (uc *UseCases) executeUpdateInventory(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	if len(req.Entities.Items) == 0 {
		return goerr.New("inventory update has no items")
	}
	if err := uc.store.AdjustInventory(ctx, req.Entities.Items); err != nil {
		return goerr.Wrap(err, "failed to adjust inventory")
	}
	result.Detail = fmt.Sprintf("Inventory updated for %d item(s).", len(req.Entities.Items))
	return nil
}

func (uc *UseCases) executeRefund(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	orderID := req.Entities.TargetOrderID
	if orderID == "" {
		return goerr.New("refund request has no target order")
	}

	order, err := uc.store.GetOrder(ctx, orderID)
	if err != nil {
		return goerr.Wrap(err, "failed to load order for refund", goerr.V("order_id", orderID))
	}
	if order.Status == model.OrderStatusRefunded {
		result.Ref = order.ID
		result.Detail = fmt.Sprintf("Order %s was already refunded.", order.ID)
		return nil
	}

	if err := uc.store.UpdateOrderStatus(ctx, orderID, model.OrderStatusRefunded); err != nil {
		return goerr.Wrap(err, "failed to mark order refunded", goerr.V("order_id", orderID))
	}
	result.Ref = order.ID
	result.Detail = fmt.Sprintf("Refund of %.2f processed for order %s.", order.Amount, order.ID)
	return nil
}

func (uc *UseCases) executeDataExport(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	if uc.exporter == nil {
		return goerr.New("no exporter configured")
	}

	orders, err := uc.store.ListOrdersByCustomer(ctx, req.ActorID)
	if err != nil {
		return goerr.Wrap(err, "failed to list orders for export")
	}
	invoices, err := uc.store.ListInvoicesByCustomer(ctx, req.ActorID)
	if err != nil {
		return goerr.Wrap(err, "failed to list invoices for export")
	}

	data, err := json.MarshalIndent(map[string]any{
		"actor_id":    req.ActorID,
		"exported_at": result.ExecutedAt.Format(time.RFC3339),
		"orders":      orders,
		"invoices":    invoices,
	}, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal export")
	}

	name := fmt.Sprintf("export-%s.json", req.ID)
	ref, err := uc.exporter.Write(ctx, name, data)
	if err != nil {
		return goerr.Wrap(err, "failed to write export")
	}
	result.Ref = ref
	result.Detail = fmt.Sprintf("Your data export is ready (%d orders, %d invoices).", len(orders), len(invoices))
	return nil
}

func (uc *UseCases) executeFollowUp(ctx context.Context, req *model.ActionRequest, result *model.ExecutionResult) error {
	orders, err := uc.store.ListOrdersByCustomer(ctx, req.ActorID)
	if err != nil {
		return goerr.Wrap(err, "failed to list orders for follow-up")
	}
	if len(orders) == 0 {
		result.Detail = "You have no orders on record yet."
		return nil
	}

	latest := orders[0]
	result.Ref = latest.ID
	result.Detail = fmt.Sprintf("Your latest order %s (%.2f) is currently %s.", latest.ID, latest.Amount, latest.Status)
	return nil
}
