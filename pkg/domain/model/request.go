package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// LineItem is one item of an order or inventory change
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// Entities holds the structured fields extracted by the classifier.
// Which fields are populated depends on the action kind.
type Entities struct {
	Amount        float64
	Quantity      int
	Items         []LineItem
	CustomerName  string
	CustomerPhone string `masq:"secret"`
	TargetOrderID string
	Notes         string
}

// ActionRequest is the normalized unit of work produced by intent
// classification. It is immutable after creation: retries create a new
// request, never mutate an existing one.
type ActionRequest struct {
	ID         types.RequestID
	ActorID    types.ActorID
	Channel    types.Channel
	Kind       types.ActionKind
	Entities   Entities
	Confidence float64
	SourceText string
	Urgent     bool

	// CustomerOrderCount is enriched from the business store before
	// rule evaluation; it is not a classifier output.
	CustomerOrderCount int

	State     types.RequestState
	CreatedAt time.Time
}

// Validate checks the invariants of a newly created request
func (r *ActionRequest) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid request")
	}
	if err := r.ActorID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid request", goerr.V("request_id", r.ID))
	}
	if !r.Kind.IsValid() {
		return goerr.New("invalid action kind", goerr.V("request_id", r.ID), goerr.V("kind", r.Kind))
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return goerr.New("confidence out of range", goerr.V("request_id", r.ID), goerr.V("confidence", r.Confidence))
	}
	return nil
}

// NewActionRequest builds a request from an inbound message and its
// classification.
func NewActionRequest(msg *InboundMessage, c *Classification) *ActionRequest {
	return &ActionRequest{
		ID:         types.NewRequestID(),
		ActorID:    msg.ActorID,
		Channel:    msg.Channel,
		Kind:       c.ProposedAction,
		Entities:   c.Entities,
		Confidence: c.Confidence,
		SourceText: msg.Text,
		Urgent:     c.Urgent,
		State:      types.RequestStateCreated,
		CreatedAt:  time.Now().UTC(),
	}
}
