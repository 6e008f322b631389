package model

import (
	"time"

	"github.com/munim-lab/munim/pkg/domain/types"
)

// InboundMessage is a normalized inbound event from any channel
// transport (Telegram webhook, WhatsApp webhook, web form).
type InboundMessage struct {
	ActorID    types.ActorID
	Channel    types.Channel
	Text       string
	ReceivedAt time.Time
}

// ConversationTurn is one entry of the per-actor rolling history fed
// to the classifier as context.
type ConversationTurn struct {
	Role string // "customer" or "assistant"
	Text string
	At   time.Time
}
