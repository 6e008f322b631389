package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/types"
	slackservice "github.com/munim-lab/munim/pkg/service/slack"
	"github.com/munim-lab/munim/pkg/utils/errutil"
	"github.com/munim-lab/munim/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// verifySlackSignature verifies the Slack request signature. Pure so it
// can be tested without an HTTP round trip.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}
	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}
	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}
	return nil
}

// slackSignatureMiddleware verifies Slack request signatures before the
// interaction handler runs
func slackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// slackInteractionHandler handles approval console button clicks. Slack
// expects a fast 200; decision processing happens inline because the
// executor is the slow part and admins expect the message update to
// reflect the outcome.
func (s *Server) slackInteractionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	if callback.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, action := range callback.ActionCallback.BlockActions {
		var decision types.Decision
		switch action.ActionID {
		case slackservice.ActionIDApprove:
			decision = types.ApprovalStatusApproved
		case slackservice.ActionIDReject:
			decision = types.ApprovalStatusRejected
		default:
			continue
		}

		approvalID := types.ApprovalID(action.Value)
		if _, err := s.uc.Resolve(ctx, approvalID, decision, callback.User.ID); err != nil {
			// Double clicks race against the first resolution; that is
			// the expected outcome, not an error worth paging on.
			if errors.Is(err, interfaces.ErrAlreadyResolved) {
				logging.From(ctx).Info("approval already resolved",
					"approval_id", approvalID,
					"user_id", callback.User.ID,
				)
				continue
			}
			errutil.Handle(ctx, goerr.Wrap(err,
				"failed to resolve approval from interaction",
				goerr.V("approval_id", approvalID),
				goerr.V("user_id", callback.User.ID),
			), "slack interaction failed")
		}
	}

	w.WriteHeader(http.StatusOK)
}
