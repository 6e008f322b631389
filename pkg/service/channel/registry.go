package channel

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// Registry routes outbound notifications to the adapter serving the
// originating transport.
type Registry struct {
	adapters map[types.Channel]interfaces.ChannelAdapter
}

func NewRegistry(adapters ...interfaces.ChannelAdapter) *Registry {
	r := &Registry{
		adapters: make(map[types.Channel]interfaces.ChannelAdapter, len(adapters)),
	}
	for _, adapter := range adapters {
		r.adapters[adapter.Channel()] = adapter
	}
	return r
}

// Get returns the adapter for a channel
func (r *Registry) Get(ch types.Channel) (interfaces.ChannelAdapter, error) {
	adapter, ok := r.adapters[ch]
	if !ok {
		return nil, goerr.New("no adapter registered for channel", goerr.V("channel", ch))
	}
	return adapter, nil
}
