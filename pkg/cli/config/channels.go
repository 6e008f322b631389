package config

import (
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/service/channel"
	"github.com/munim-lab/munim/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Channels holds CLI flags for the customer-facing transports. The web
// channel is always on; Telegram and WhatsApp are enabled by their
// credentials.
type Channels struct {
	telegramToken       string
	whatsappPhoneID     string
	whatsappAccessToken string
	whatsappVerifyToken string
}

// Flags returns CLI flags for channel configuration
func (c *Channels) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "telegram-bot-token",
			Usage:       "Telegram bot token (empty disables the telegram channel)",
			Sources:     cli.EnvVars("MUNIM_TELEGRAM_BOT_TOKEN"),
			Destination: &c.telegramToken,
		},
		&cli.StringFlag{
			Name:        "whatsapp-phone-id",
			Usage:       "WhatsApp Business phone number ID",
			Sources:     cli.EnvVars("MUNIM_WHATSAPP_PHONE_ID"),
			Destination: &c.whatsappPhoneID,
		},
		&cli.StringFlag{
			Name:        "whatsapp-access-token",
			Usage:       "WhatsApp Graph API access token",
			Sources:     cli.EnvVars("MUNIM_WHATSAPP_ACCESS_TOKEN"),
			Destination: &c.whatsappAccessToken,
		},
		&cli.StringFlag{
			Name:        "whatsapp-verify-token",
			Usage:       "Token echoed during WhatsApp webhook subscription",
			Sources:     cli.EnvVars("MUNIM_WHATSAPP_VERIFY_TOKEN"),
			Destination: &c.whatsappVerifyToken,
		},
	}
}

// WhatsAppVerifyToken returns the webhook subscription token
func (c *Channels) WhatsAppVerifyToken() string {
	return c.whatsappVerifyToken
}

// Configure builds the adapter registry and returns it with the web
// adapter, which the HTTP controller needs for its polling endpoint.
func (c *Channels) Configure() (*channel.Registry, *channel.Web, error) {
	web := channel.NewWeb()
	adapters := []interfaces.ChannelAdapter{web}

	if c.telegramToken != "" {
		tg, err := channel.NewTelegram(c.telegramToken)
		if err != nil {
			return nil, nil, err
		}
		adapters = append(adapters, tg)
		logging.Default().Info("Telegram channel enabled")
	}

	if c.whatsappPhoneID != "" && c.whatsappAccessToken != "" {
		wa, err := channel.NewWhatsApp(c.whatsappPhoneID, c.whatsappAccessToken)
		if err != nil {
			return nil, nil, err
		}
		adapters = append(adapters, wa)
		logging.Default().Info("WhatsApp channel enabled")
	}

	return channel.NewRegistry(adapters...), web, nil
}
