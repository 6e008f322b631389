package types

import "fmt"

// Channel identifies the messaging transport a message arrived on
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelWeb      Channel = "web"
)

// AllChannels returns all valid channels
func AllChannels() []Channel {
	return []Channel{ChannelTelegram, ChannelWhatsApp, ChannelWeb}
}

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelTelegram, ChannelWhatsApp, ChannelWeb:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}

// ParseChannel parses a string into a Channel
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.IsValid() {
		return "", fmt.Errorf("invalid channel: %s", s)
	}
	return ch, nil
}
