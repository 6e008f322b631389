package usecase

import (
	"context"
	"time"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	slackservice "github.com/munim-lab/munim/pkg/service/slack"
	"github.com/munim-lab/munim/pkg/utils/errutil"
)

// ListPendingApprovals returns the admin queue, priority desc and
// oldest first within a tier
func (uc *UseCases) ListPendingApprovals(ctx context.Context, limit, offset int) ([]*model.ApprovalRecord, error) {
	return uc.repo.Approval().ListPending(ctx, limit, offset)
}

// CountPendingApprovals returns the queue depth
func (uc *UseCases) CountPendingApprovals(ctx context.Context) (int, error) {
	return uc.repo.Approval().CountPending(ctx)
}

// GetApproval returns one approval record
func (uc *UseCases) GetApproval(ctx context.Context, id types.ApprovalID) (*model.ApprovalRecord, error) {
	return uc.repo.Approval().Get(ctx, id)
}

// ListAudit returns audit entries newest first
func (uc *UseCases) ListAudit(ctx context.Context, limit, offset int) ([]*model.AuditEntry, error) {
	return uc.repo.Audit().List(ctx, limit, offset)
}

// ListAuditByActor returns one actor's audit entries newest first
func (uc *UseCases) ListAuditByActor(ctx context.Context, actorID types.ActorID, limit int) ([]*model.AuditEntry, error) {
	return uc.repo.Audit().ListByActor(ctx, actorID, limit)
}

// Resolve applies an admin decision to a pending approval. The status
// transition and the lock release land atomically in the repository;
// everything after that (execution, console update, customer
// notification) happens outside the critical section and must never
// re-hold the lock.
func (uc *UseCases) Resolve(ctx context.Context, id types.ApprovalID, decision types.Decision, resolvedBy string) (*model.ApprovalRecord, error) {
	resolved, err := uc.repo.Approval().Resolve(ctx, id, decision, resolvedBy)
	if err != nil {
		return nil, err
	}

	req, err := uc.repo.Request().Get(ctx, resolved.RequestID)
	if err != nil {
		errutil.Handle(ctx, err, "failed to load request for resolved approval")
		return resolved, nil
	}

	switch decision {
	case types.ApprovalStatusApproved:
		uc.audit(ctx, resolved.ActorID, types.AuditEventApproved, map[string]any{
			"approval_id": resolved.ID.String(),
			"request_id":  resolved.RequestID.String(),
			"resolved_by": resolvedBy,
		})
		if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateApproved); err != nil {
			errutil.Handle(ctx, err, "failed to mark request approved")
		}
		uc.executeApproved(ctx, resolved, req)

	case types.ApprovalStatusRejected:
		uc.audit(ctx, resolved.ActorID, types.AuditEventRejected, map[string]any{
			"approval_id": resolved.ID.String(),
			"request_id":  resolved.RequestID.String(),
			"resolved_by": resolvedBy,
		})
		if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateRejected); err != nil {
			errutil.Handle(ctx, err, "failed to mark request rejected")
		}
		uc.fanOut(ctx, resolved, req, msgRejected)
	}

	return resolved, nil
}

// executeApproved runs the executor for an approved request. Execution
// failure leaves ExecutedAt unset with an attached failure detail; it
// is not retried automatically.
func (uc *UseCases) executeApproved(ctx context.Context, rec *model.ApprovalRecord, req *model.ActionRequest) {
	if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateExecuting); err != nil {
		errutil.Handle(ctx, err, "failed to mark request executing")
	}

	result, err := uc.Execute(ctx, req.ID)
	if err != nil || !result.Succeeded() {
		detail := ""
		if err != nil {
			errutil.Handle(ctx, err, "post-approval execution failed")
			detail = err.Error()
		} else {
			detail = result.Detail
		}

		if markErr := uc.repo.Approval().MarkExecutionFailed(ctx, rec.ID, detail); markErr != nil {
			errutil.Handle(ctx, markErr, "failed to attach execution failure detail")
		}
		if _, stateErr := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateFailed); stateErr != nil {
			errutil.Handle(ctx, stateErr, "failed to mark request failed")
		}
		uc.audit(ctx, rec.ActorID, types.AuditEventExecutionFailed, map[string]any{
			"approval_id": rec.ID.String(),
			"request_id":  req.ID.String(),
			"detail":      detail,
		})
		uc.fanOut(ctx, rec, req, msgApprovedFailed)
		return
	}

	executedAt := time.Now().UTC()
	if err := uc.repo.Approval().MarkExecuted(ctx, rec.ID, executedAt); err != nil {
		errutil.Handle(ctx, err, "failed to stamp executedAt")
	}
	if _, err := uc.repo.Request().UpdateState(ctx, req.ID, types.RequestStateExecuted); err != nil {
		errutil.Handle(ctx, err, "failed to mark request executed")
	}
	uc.audit(ctx, rec.ActorID, types.AuditEventExecuted, map[string]any{
		"approval_id": rec.ID.String(),
		"request_id":  req.ID.String(),
		"ref":         result.Ref,
	})
	uc.fanOut(ctx, rec, req, msgApprovedExecuted)
}

// postApprovalMessage posts the approval request to the admin console
// (best-effort) and stores the message reference for later updates.
func (uc *UseCases) postApprovalMessage(ctx context.Context, rec *model.ApprovalRecord, req *model.ActionRequest) {
	if uc.slackService == nil || uc.slackChannelID == "" {
		return
	}

	blocks := slackservice.BuildApprovalBlocks(rec, req)
	timestamp, err := uc.slackService.PostMessage(ctx, uc.slackChannelID, blocks, slackservice.FallbackText(rec, req))
	if err != nil {
		errutil.Handle(ctx, err, "failed to post approval message")
		return
	}

	rec.SlackChannelID = uc.slackChannelID
	rec.SlackMessageTS = timestamp
	if err := uc.repo.Approval().SetSlackMessage(ctx, rec.ID, uc.slackChannelID, timestamp); err != nil {
		errutil.Handle(ctx, err, "failed to store approval message reference")
	}
}

// updateApprovalMessage refreshes the admin console message after a
// decision (best-effort)
func (uc *UseCases) updateApprovalMessage(ctx context.Context, rec *model.ApprovalRecord, req *model.ActionRequest) {
	if uc.slackService == nil || rec.SlackChannelID == "" || rec.SlackMessageTS == "" {
		return
	}

	blocks := slackservice.BuildApprovalBlocks(rec, req)
	if err := uc.slackService.UpdateMessage(ctx, rec.SlackChannelID, rec.SlackMessageTS, blocks, slackservice.FallbackText(rec, req)); err != nil {
		errutil.Handle(ctx, err, "failed to update approval message")
	}
}
