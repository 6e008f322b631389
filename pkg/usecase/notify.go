package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/utils/errutil"
	"golang.org/x/sync/errgroup"
)

// fanOut delivers the decision outcome to the customer and refreshes
// the admin console message. Both legs are best-effort and independent;
// a failed notification never rolls back the decision it describes.
func (uc *UseCases) fanOut(ctx context.Context, rec *model.ApprovalRecord, req *model.ActionRequest, text string) {
	var eg errgroup.Group

	eg.Go(func() error {
		uc.notify(ctx, req.Channel, req.ActorID, text)
		return nil
	})
	eg.Go(func() error {
		uc.updateApprovalMessage(ctx, rec, req)
		return nil
	})

	_ = eg.Wait()

	uc.appendHistory(ctx, req.ActorID, "assistant", text)
}

// notify sends text to the actor over its originating channel,
// retrying with exponential backoff. Exhausted retries are recorded in
// the audit trail and dropped.
func (uc *UseCases) notify(ctx context.Context, ch types.Channel, actorID types.ActorID, text string) {
	adapter, err := uc.channels.Get(ch)
	if err != nil {
		errutil.Handle(ctx, err, "no outbound adapter for notification")
		uc.auditNotificationDropped(ctx, actorID, ch, err)
		return
	}

	backoff := uc.notifyBackoff
	var lastErr error
	for attempt := 0; attempt < uc.notifyAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				uc.auditNotificationDropped(ctx, actorID, ch, ctx.Err())
				return
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if lastErr = adapter.Send(ctx, actorID, text); lastErr == nil {
			return
		}
		errutil.Handle(ctx, goerr.Wrap(lastErr, "notification attempt failed",
			goerr.V("channel", ch), goerr.V("attempt", attempt+1)), "failed to send notification")
	}

	uc.auditNotificationDropped(ctx, actorID, ch, lastErr)
}

func (uc *UseCases) auditNotificationDropped(ctx context.Context, actorID types.ActorID, ch types.Channel, cause error) {
	detail := map[string]any{
		"channel":  ch.String(),
		"attempts": uc.notifyAttempts,
	}
	if cause != nil {
		detail["cause"] = cause.Error()
	}
	uc.audit(ctx, actorID, types.AuditEventNotificationDropped, detail)
}
