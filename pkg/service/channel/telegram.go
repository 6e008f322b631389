// Package channel implements the outbound messaging adapters. Each
// adapter serves one transport; the registry picks the right one for a
// notification's originating channel.
package channel

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/types"
)

// telegramSender is the narrow slice of tgbotapi.BotAPI the adapter
// needs, extracted so tests can stub delivery.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot telegramSender
}

var _ interfaces.ChannelAdapter = &Telegram{}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create telegram bot client")
	}
	return &Telegram{bot: bot}, nil
}

// NewTelegramWithSender injects a sender directly, for tests
func NewTelegramWithSender(sender telegramSender) *Telegram {
	return &Telegram{bot: sender}
}

func (c *Telegram) Channel() types.Channel {
	return types.ChannelTelegram
}

func (c *Telegram) Send(ctx context.Context, actorID types.ActorID, text string) error {
	chatID, err := telegramChatID(actorID)
	if err != nil {
		return err
	}

	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return goerr.Wrap(err, "failed to send telegram message", goerr.V("actor_id", actorID))
	}
	return nil
}

// telegramChatID extracts the chat ID from an actor ID of the form
// "telegram:<chatID>"
func telegramChatID(actorID types.ActorID) (int64, error) {
	raw, ok := strings.CutPrefix(actorID.String(), "telegram:")
	if !ok {
		return 0, goerr.New("actor ID is not a telegram address", goerr.V("actor_id", actorID))
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid telegram chat ID", goerr.V("actor_id", actorID))
	}
	return chatID, nil
}

// TelegramActorID builds the canonical actor ID for a telegram chat
func TelegramActorID(chatID int64) types.ActorID {
	return types.ActorID("telegram:" + strconv.FormatInt(chatID, 10))
}
