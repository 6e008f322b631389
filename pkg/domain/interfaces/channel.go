package interfaces

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/types"
)

// ChannelAdapter sends outbound messages on one transport. Inbound
// messages arrive through the HTTP controller as normalized
// model.InboundMessage values, so adapters only cover the send side.
type ChannelAdapter interface {
	// Channel returns the transport this adapter serves
	Channel() types.Channel

	// Send delivers text to the actor. The actor ID encodes the
	// transport-specific address.
	Send(ctx context.Context, actorID types.ActorID, text string) error
}
