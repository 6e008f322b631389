package classifier

import (
	"context"
	"strings"

	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// Keyword is the deterministic rule-table classifier used when no LLM
// client is configured. It sits behind the same interface, so the
// pipeline cannot tell which one produced a classification.
type Keyword struct{}

var _ interfaces.IntentClassifier = &Keyword{}

func NewKeyword() *Keyword {
	return &Keyword{}
}

// keywordConfidence is deliberately below the auto-execute comfort zone
// but above the confidence floor: keyword matches are right often
// enough that forcing a clarification on every one would be noise.
const keywordConfidence = 0.65

type keywordRule struct {
	kind     types.ActionKind
	keywords []string
}

// keywordRules are checked in order; the first match wins. More
// specific intents come before broader ones (refund before order,
// since "return my order" mentions both).
var keywordRules = []keywordRule{
	{types.ActionRefund, []string{"refund", "money back", "return my"}},
	{types.ActionSendPaymentReminder, []string{"remind", "payment due", "outstanding", "unpaid"}},
	{types.ActionGenerateInvoice, []string{"invoice", "bill me", "billing"}},
	{types.ActionUpdateInventory, []string{"inventory", "stock", "restock"}},
	{types.ActionDataExport, []string{"export", "download my data", "all my records"}},
	{types.ActionCreateOrder, []string{"order", "buy", "purchase", "need", "send me"}},
	{types.ActionFollowUp, []string{"follow up", "status of", "any update", "where is"}},
}

var urgentKeywords = []string{"urgent", "asap", "immediately", "right now"}

func (c *Keyword) Classify(ctx context.Context, text string, history []model.ConversationTurn) (*model.Classification, error) {
	lowered := strings.ToLower(text)

	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return &model.Classification{
					Intent:         rule.kind,
					ProposedAction: rule.kind,
					Confidence:     keywordConfidence,
					Urgent:         containsAny(lowered, urgentKeywords),
				}, nil
			}
		}
	}

	fallback := model.FallbackClassification()
	fallback.Urgent = containsAny(lowered, urgentKeywords)
	return fallback, nil
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
