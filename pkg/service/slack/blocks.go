package slack

import (
	"fmt"
	"strings"

	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/slack-go/slack"
)

// riskEmoji maps the advisory risk level to a queue marker
func riskEmoji(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelHigh:
		return ":red_circle:"
	case types.RiskLevelMedium:
		return ":large_yellow_circle:"
	default:
		return ":large_green_circle:"
	}
}

// BuildApprovalBlocks constructs the Block Kit message for one approval
// record. Pending records get approve/reject buttons; resolved records
// get a decision footer instead.
func BuildApprovalBlocks(rec *model.ApprovalRecord, req *model.ActionRequest) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("Approval needed: %s", req.Kind), true, false),
		),
	}

	details := []string{
		fmt.Sprintf("*Actor:* %s (%s)", req.ActorID, req.Channel),
		fmt.Sprintf("*Risk:* %s %s", riskEmoji(rec.Priority), rec.Priority),
	}
	if req.Entities.Amount > 0 {
		details = append(details, fmt.Sprintf("*Amount:* %.2f", req.Entities.Amount))
	}
	if req.Entities.CustomerName != "" {
		details = append(details, fmt.Sprintf("*Customer:* %s", req.Entities.CustomerName))
	}
	details = append(details, fmt.Sprintf("*Message:* %s", req.SourceText))

	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, strings.Join(details, "\n"), false, false),
		nil, nil,
	))

	if len(rec.Reasons) > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				"Reasons: "+strings.Join(rec.Reasons, "; "), false, false),
		))
	}

	switch rec.Status {
	case types.ApprovalStatusPending:
		approveBtn := slack.NewButtonBlockElement(ActionIDApprove, rec.ID.String(),
			slack.NewTextBlockObject(slack.PlainTextType, "Approve", true, false),
		)
		approveBtn.Style = slack.StylePrimary

		rejectBtn := slack.NewButtonBlockElement(ActionIDReject, rec.ID.String(),
			slack.NewTextBlockObject(slack.PlainTextType, "Reject", true, false),
		)
		rejectBtn.Style = slack.StyleDanger

		blocks = append(blocks, slack.NewActionBlock("approval_actions", approveBtn, rejectBtn))

	default:
		footer := fmt.Sprintf("%s by %s", strings.ToLower(rec.Status.String()), rec.ResolvedBy)
		if rec.ResolvedAt != nil {
			footer += " at " + rec.ResolvedAt.Format("2006-01-02 15:04:05 MST")
		}
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, footer, false, false),
		))
	}

	return blocks
}

// FallbackText builds the plain-text notification fallback for an
// approval message
func FallbackText(rec *model.ApprovalRecord, req *model.ActionRequest) string {
	if rec.Status == types.ApprovalStatusPending {
		return fmt.Sprintf("Approval needed: %s from %s", req.Kind, req.ActorID)
	}
	return fmt.Sprintf("Approval %s: %s from %s", strings.ToLower(rec.Status.String()), req.Kind, req.ActorID)
}
