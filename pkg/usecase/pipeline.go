package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/utils/errutil"
)

// PipelineResult is the outcome of one inbound message. Reply is what
// the customer should see; the other fields exist for controllers and
// tests that need the created entities.
type PipelineResult struct {
	Reply     string
	Request   *model.ActionRequest
	Approval  *model.ApprovalRecord
	Execution *model.ExecutionResult
}

// HandleInbound runs the full pipeline for one normalized inbound
// message: lock check, classification, rule evaluation, then either
// auto-execution or approval gating.
func (uc *UseCases) HandleInbound(ctx context.Context, msg *model.InboundMessage) (*PipelineResult, error) {
	if err := msg.ActorID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid inbound message")
	}
	if !msg.Channel.IsValid() {
		return nil, goerr.New("invalid inbound channel", goerr.V("channel", msg.Channel))
	}

	// A held lock means the actor already has a request waiting for a
	// decision; the message is rejected, not queued.
	pending, err := uc.repo.Approval().GetPendingByActor(ctx, msg.ActorID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		uc.audit(ctx, msg.ActorID, types.AuditEventRequestLocked, map[string]any{
			"pending_approval_id": pending.ID.String(),
			"text":                msg.Text,
		})
		return &PipelineResult{Reply: msgPleaseWait}, nil
	}

	uc.appendHistory(ctx, msg.ActorID, "customer", msg.Text)

	history, err := uc.repo.History().Recent(ctx, msg.ActorID, historyContextTurns)
	if err != nil {
		errutil.Handle(ctx, err, "failed to load conversation history")
		history = nil
	}

	classification, err := uc.classifier.Classify(ctx, msg.Text, history)
	classificationFailed := err != nil
	if classificationFailed {
		errutil.Handle(ctx, err, "classification failed, falling back")
		classification = model.FallbackClassification()
	}

	req := model.NewActionRequest(msg, classification)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.CustomerOrderCount = uc.orderCount(ctx, msg.ActorID)

	created, err := uc.repo.Request().Create(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, msg.ActorID, types.AuditEventRequestReceived, map[string]any{
		"request_id": created.ID.String(),
		"channel":    created.Channel.String(),
		"kind":       created.Kind.String(),
		"confidence": created.Confidence,
		"entities":   created.Entities,
	})

	if classificationFailed {
		uc.audit(ctx, msg.ActorID, types.AuditEventClassificationFailed, map[string]any{
			"request_id": created.ID.String(),
		})
		uc.appendHistory(ctx, msg.ActorID, "assistant", msgHavingTrouble)
		return &PipelineResult{Reply: msgHavingTrouble, Request: created}, nil
	}

	eval := uc.evaluator.Evaluate(created)

	if eval.NeedsClarification {
		uc.audit(ctx, msg.ActorID, types.AuditEventClarificationRequired, map[string]any{
			"request_id": created.ID.String(),
			"confidence": created.Confidence,
		})
		uc.appendHistory(ctx, msg.ActorID, "assistant", msgClarification)
		return &PipelineResult{Reply: msgClarification, Request: created}, nil
	}

	if !eval.RequiresApproval {
		return uc.autoExecute(ctx, created)
	}

	return uc.gate(ctx, created, eval)
}

// autoExecute runs the low-risk path: straight from evaluator to
// executor, no lock, no approval record.
func (uc *UseCases) autoExecute(ctx context.Context, req *model.ActionRequest) (*PipelineResult, error) {
	if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateExecuting); err != nil {
		return nil, err
	}

	result, err := uc.Execute(ctx, req.ID)
	if err != nil {
		errutil.Handle(ctx, err, "auto-execution failed")
		if _, stateErr := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateFailed); stateErr != nil {
			errutil.Handle(ctx, stateErr, "failed to mark request failed")
		}
		uc.audit(ctx, req.ActorID, types.AuditEventExecutionFailed, map[string]any{
			"request_id": req.ID.String(),
		})
		uc.appendHistory(ctx, req.ActorID, "assistant", msgHavingTrouble)
		return &PipelineResult{Reply: msgHavingTrouble, Request: req}, nil
	}

	if result.Succeeded() {
		if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateExecuted); err != nil {
			errutil.Handle(ctx, err, "failed to mark request executed")
		}
		uc.audit(ctx, req.ActorID, types.AuditEventExecuted, map[string]any{
			"request_id": req.ID.String(),
			"ref":        result.Ref,
		})
	} else {
		if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateFailed); err != nil {
			errutil.Handle(ctx, err, "failed to mark request failed")
		}
		uc.audit(ctx, req.ActorID, types.AuditEventExecutionFailed, map[string]any{
			"request_id": req.ID.String(),
			"detail":     result.Detail,
		})
	}

	reply := result.Detail
	if !result.Succeeded() {
		reply = msgHavingTrouble
	}
	uc.appendHistory(ctx, req.ActorID, "assistant", reply)
	return &PipelineResult{Reply: reply, Request: req, Execution: result}, nil
}

// gate parks a risky request behind the approval queue
func (uc *UseCases) gate(ctx context.Context, req *model.ActionRequest, eval *model.Evaluation) (*PipelineResult, error) {
	acquired, err := uc.repo.Lock().TryAcquire(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.audit(ctx, req.ActorID, types.AuditEventRequestLocked, map[string]any{
			"request_id": req.ID.String(),
		})
		return &PipelineResult{Reply: msgPleaseWait, Request: req}, nil
	}

	rec, err := uc.repo.Approval().Create(ctx, &model.ApprovalRecord{
		RequestID: req.ID,
		ActorID:   req.ActorID,
		Priority:  eval.RiskLevel,
		Reasons:   eval.Reasons,
	})
	if err != nil {
		if releaseErr := uc.repo.Lock().Release(ctx, req.ActorID); releaseErr != nil {
			errutil.Handle(ctx, releaseErr, "failed to release lock after approval creation failure")
		}
		if errors.Is(err, interfaces.ErrPendingExists) {
			uc.audit(ctx, req.ActorID, types.AuditEventRequestLocked, map[string]any{
				"request_id": req.ID.String(),
			})
			return &PipelineResult{Reply: msgPleaseWait, Request: req}, nil
		}
		return nil, err
	}

	if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateAwaitingApproval); err != nil {
		errutil.Handle(ctx, err, "failed to mark request awaiting approval")
	}

	uc.audit(ctx, req.ActorID, types.AuditEventApprovalCreated, map[string]any{
		"request_id":  req.ID.String(),
		"approval_id": rec.ID.String(),
		"priority":    rec.Priority.String(),
		"reasons":     rec.Reasons,
	})

	uc.postApprovalMessage(ctx, rec, req)

	uc.appendHistory(ctx, req.ActorID, "assistant", msgSubmitted)
	return &PipelineResult{Reply: msgSubmitted, Request: req, Approval: rec}, nil
}

// orderCount enriches the request with the customer's order history;
// a store failure degrades to zero rather than blocking the pipeline.
func (uc *UseCases) orderCount(ctx context.Context, actorID types.ActorID) int {
	count, err := uc.store.OrderCountByCustomer(ctx, actorID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to count customer orders")
		return 0
	}
	return count
}

func (uc *UseCases) appendHistory(ctx context.Context, actorID types.ActorID, role, text string) {
	turn := model.ConversationTurn{Role: role, Text: text, At: time.Now().UTC()}
	if err := uc.repo.History().Append(ctx, actorID, turn); err != nil {
		errutil.Handle(ctx, err, "failed to append conversation history")
	}
}

// audit appends a masked audit entry. Audit failures are logged and
// never abort the transition they describe.
func (uc *UseCases) audit(ctx context.Context, actorID types.ActorID, event types.AuditEvent, detail map[string]any) {
	entry := model.NewAuditEntry(actorID, event, detail)
	if err := uc.repo.Audit().Append(ctx, entry); err != nil {
		errutil.Handle(ctx, err, "failed to append audit entry")
	}
}
