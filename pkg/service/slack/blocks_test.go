package slack_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	slackservice "github.com/munim-lab/munim/pkg/service/slack"
	goslack "github.com/slack-go/slack"
)

func newApprovalFixture() (*model.ApprovalRecord, *model.ActionRequest) {
	rec := &model.ApprovalRecord{
		ID:        types.NewApprovalID(),
		RequestID: types.NewRequestID(),
		ActorID:   "telegram:12345",
		Status:    types.ApprovalStatusPending,
		Priority:  types.RiskLevelHigh,
		Reasons:   []string{"amount 12000.00 exceeds high value threshold 10000.00"},
		CreatedAt: time.Now().UTC(),
	}
	req := &model.ActionRequest{
		ID:      rec.RequestID,
		ActorID: rec.ActorID,
		Channel: types.ChannelTelegram,
		Kind:    types.ActionCreateOrder,
		Entities: model.Entities{
			Amount:       12000,
			CustomerName: "Ramesh",
		},
		Confidence: 0.9,
		SourceText: "order for Ramesh, 12000",
	}
	return rec, req
}

func TestBuildApprovalBlocks_Pending(t *testing.T) {
	rec, req := newApprovalFixture()

	blocks := slackservice.BuildApprovalBlocks(rec, req)
	gt.Array(t, blocks).Length(4).Required()

	header := gt.Cast[*goslack.HeaderBlock](t, blocks[0])
	gt.Value(t, header.Text.Text).Equal("Approval needed: create_order")

	actions := gt.Cast[*goslack.ActionBlock](t, blocks[3])
	gt.Array(t, actions.Elements.ElementSet).Length(2).Required()

	approve := gt.Cast[*goslack.ButtonBlockElement](t, actions.Elements.ElementSet[0])
	gt.Value(t, approve.ActionID).Equal(slackservice.ActionIDApprove)
	gt.Value(t, approve.Value).Equal(rec.ID.String())

	reject := gt.Cast[*goslack.ButtonBlockElement](t, actions.Elements.ElementSet[1])
	gt.Value(t, reject.ActionID).Equal(slackservice.ActionIDReject)
}

func TestBuildApprovalBlocks_Resolved(t *testing.T) {
	rec, req := newApprovalFixture()
	now := time.Now().UTC()
	rec.Status = types.ApprovalStatusApproved
	rec.ResolvedBy = "admin-1"
	rec.ResolvedAt = &now

	blocks := slackservice.BuildApprovalBlocks(rec, req)

	// no action block on a resolved record
	for _, block := range blocks {
		_, isAction := block.(*goslack.ActionBlock)
		gt.Bool(t, isAction).False()
	}
}

func TestFallbackText(t *testing.T) {
	rec, req := newApprovalFixture()
	gt.Value(t, slackservice.FallbackText(rec, req)).
		Equal("Approval needed: create_order from telegram:12345")

	rec.Status = types.ApprovalStatusRejected
	gt.Value(t, slackservice.FallbackText(rec, req)).
		Equal("Approval rejected: create_order from telegram:12345")
}
