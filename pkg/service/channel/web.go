package channel

import (
	"context"
	"sync"

	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// webOutboxLimit bounds the per-actor outbox so abandoned web sessions
// cannot grow without bound
const webOutboxLimit = 50

// Web serves browser sessions. The web transport has no push channel,
// so Send parks messages in a per-actor outbox that the web controller
// drains on the next poll.
type Web struct {
	mu     sync.Mutex
	outbox map[types.ActorID][]string
}

var _ interfaces.ChannelAdapter = &Web{}

func NewWeb() *Web {
	return &Web{
		outbox: make(map[types.ActorID][]string),
	}
}

func (c *Web) Channel() types.Channel {
	return types.ChannelWeb
}

func (c *Web) Send(ctx context.Context, actorID types.ActorID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	queued := append(c.outbox[actorID], text)
	if len(queued) > webOutboxLimit {
		queued = queued[len(queued)-webOutboxLimit:]
	}
	c.outbox[actorID] = queued
	return nil
}

// WebActorID builds the actor ID of a browser session
func WebActorID(sessionID string) types.ActorID {
	return types.ActorID("web:" + sessionID)
}

// Drain returns and clears the actor's queued messages
func (c *Web) Drain(actorID types.ActorID) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	queued := c.outbox[actorID]
	delete(c.outbox, actorID)
	return queued
}
