// Package classifier turns raw customer messages into structured
// action classifications, either via an LLM or via the deterministic
// keyword table.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// defaultTimeout bounds the classification call. The pipeline falls
// back to a deterministic classification when it expires, so it must
// be short enough that a customer is never left waiting on the LLM.
const defaultTimeout = 10 * time.Second

// LLM classifies messages with a gollem LLM client using a JSON
// response schema.
type LLM struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
}

var _ interfaces.IntentClassifier = &LLM{}

// Option is a functional option for LLM configuration
type Option func(*LLM)

// WithTimeout overrides the per-call classification timeout
func WithTimeout(d time.Duration) Option {
	return func(c *LLM) {
		c.timeout = d
	}
}

// NewLLM creates a new LLM classifier with the provided client
func NewLLM(llmClient gollem.LLMClient, opts ...Option) (*LLM, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &LLM{
		llmClient: llmClient,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *LLM) Classify(ctx context.Context, text string, history []model.ConversationTurn) (*model.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(text, history)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate classification")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty classification response")
	}

	var raw llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse classification response", goerr.V("response", resp.Texts[0]))
	}

	return raw.toModel()
}

type llmResponse struct {
	Intent         string      `json:"intent"`
	ProposedAction string      `json:"proposed_action"`
	Confidence     float64     `json:"confidence"`
	Urgent         bool        `json:"urgent"`
	Entities       llmEntities `json:"entities"`
}

type llmEntities struct {
	Amount        float64   `json:"amount"`
	Quantity      int       `json:"quantity"`
	Items         []llmItem `json:"items"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	TargetOrderID string    `json:"target_order_id"`
	Notes         string    `json:"notes"`
}

type llmItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (r *llmResponse) toModel() (*model.Classification, error) {
	intent, err := types.ParseActionKind(r.Intent)
	if err != nil {
		return nil, goerr.Wrap(err, "classification has unknown intent", goerr.V("intent", r.Intent))
	}

	proposed := intent
	if r.ProposedAction != "" {
		proposed, err = types.ParseActionKind(r.ProposedAction)
		if err != nil {
			return nil, goerr.Wrap(err, "classification has unknown proposed action",
				goerr.V("proposed_action", r.ProposedAction))
		}
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return nil, goerr.New("classification confidence out of range", goerr.V("confidence", r.Confidence))
	}

	items := make([]model.LineItem, 0, len(r.Entities.Items))
	for _, item := range r.Entities.Items {
		items = append(items, model.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return &model.Classification{
		Intent:         intent,
		ProposedAction: proposed,
		Confidence:     r.Confidence,
		Urgent:         r.Urgent,
		Entities: model.Entities{
			Amount:        r.Entities.Amount,
			Quantity:      r.Entities.Quantity,
			Items:         items,
			CustomerName:  r.Entities.CustomerName,
			CustomerPhone: r.Entities.CustomerPhone,
			TargetOrderID: r.Entities.TargetOrderID,
			Notes:         r.Entities.Notes,
		},
	}, nil
}

// buildSystemPrompt creates the fixed system prompt for classification
func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an intent classifier for a small-business assistant. ")
	sb.WriteString("Customers send short messages about orders, invoices, payments, inventory, refunds and data exports.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Classify the latest customer message into exactly one intent:\n")
	for _, kind := range types.AllActionKinds() {
		fmt.Fprintf(&sb, "   - %s\n", kind)
	}
	sb.WriteString("2. Extract the structured entities the message mentions: amounts, quantities, line items, customer names, phone numbers, order IDs.\n")
	sb.WriteString("3. Set proposed_action to the intent unless the conversation context makes a different action appropriate.\n")
	sb.WriteString("4. Set confidence between 0 and 1 reflecting how certain the classification is.\n")
	sb.WriteString("5. Set urgent to true only when the customer explicitly asks for immediate handling.\n")
	sb.WriteString("6. When the message is small talk or a question that needs no business action, use general_query.\n")

	return sb.String()
}

// buildUserPrompt creates the user prompt with conversation history and
// the message to classify
func buildUserPrompt(text string, history []model.ConversationTurn) string {
	var sb strings.Builder

	if len(history) > 0 {
		sb.WriteString("## Conversation so far:\n\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Message to classify:\n\n")
	sb.WriteString(text)
	sb.WriteString("\n")

	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	intents := make([]string, 0, len(types.AllActionKinds()))
	for _, kind := range types.AllActionKinds() {
		intents = append(intents, kind.String())
	}

	itemSchema := &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"name":       {Type: gollem.TypeString, Description: "Item name", Required: true},
			"quantity":   {Type: gollem.TypeInteger, Description: "Item quantity", Required: true},
			"unit_price": {Type: gollem.TypeNumber, Description: "Price per unit"},
		},
	}

	return &gollem.Parameter{
		Title:       "IntentClassification",
		Description: "Structured classification of one customer message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"intent": {
				Type:        gollem.TypeString,
				Description: "The classified intent",
				Enum:        intents,
				Required:    true,
			},
			"proposed_action": {
				Type:        gollem.TypeString,
				Description: "The action to take, usually the intent itself",
				Enum:        intents,
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Classification confidence between 0 and 1",
				Required:    true,
			},
			"urgent": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the customer asked for immediate handling",
			},
			"entities": {
				Type:        gollem.TypeObject,
				Description: "Structured fields extracted from the message",
				Properties: map[string]*gollem.Parameter{
					"amount":          {Type: gollem.TypeNumber, Description: "Monetary amount"},
					"quantity":        {Type: gollem.TypeInteger, Description: "Total quantity"},
					"items":           {Type: gollem.TypeArray, Description: "Line items", Items: itemSchema},
					"customer_name":   {Type: gollem.TypeString, Description: "Customer name"},
					"customer_phone":  {Type: gollem.TypeString, Description: "Customer phone number"},
					"target_order_id": {Type: gollem.TypeString, Description: "Referenced order ID"},
					"notes":           {Type: gollem.TypeString, Description: "Free-form notes"},
				},
			},
		},
	}
}
