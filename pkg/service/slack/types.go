package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Action IDs of the approval console buttons. The interaction webhook
// dispatches on these.
const (
	ActionIDApprove = "approve_request"
	ActionIDReject  = "reject_request"
)

// Service provides the admin console surface on Slack
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// UpdateMessage updates an existing Block Kit message identified by channel and timestamp.
	UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []slack.Block, text string) error
}
