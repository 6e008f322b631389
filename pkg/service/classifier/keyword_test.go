package classifier_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/classifier"
)

func TestKeywordClassify(t *testing.T) {
	cases := []struct {
		text   string
		expect types.ActionKind
	}{
		{"I want to order 5 bags of rice", types.ActionCreateOrder},
		{"please send the invoice for last week", types.ActionGenerateInvoice},
		{"remind Sharma about the payment", types.ActionSendPaymentReminder},
		{"update the stock for sugar", types.ActionUpdateInventory},
		{"I need a refund for my last order", types.ActionRefund},
		{"export all my records please", types.ActionDataExport},
		{"any update on my delivery?", types.ActionFollowUp},
		{"hello there", types.ActionGeneralQuery},
	}

	c := classifier.NewKeyword()
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			result, err := c.Classify(context.Background(), tc.text, nil)
			gt.NoError(t, err).Required()
			gt.Value(t, result.Intent).Equal(tc.expect)
			gt.Value(t, result.ProposedAction).Equal(tc.expect)
		})
	}
}

func TestKeywordClassify_UnmatchedUsesFallback(t *testing.T) {
	c := classifier.NewKeyword()

	result, err := c.Classify(context.Background(), "good morning", nil)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Intent).Equal(types.ActionGeneralQuery)
	gt.Value(t, result.Confidence).Equal(0.3)
}

func TestKeywordClassify_Urgent(t *testing.T) {
	c := classifier.NewKeyword()

	result, err := c.Classify(context.Background(), "order 2 bags ASAP", nil)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Urgent).True()

	result, err = c.Classify(context.Background(), "order 2 bags", nil)
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Urgent).False()
}
