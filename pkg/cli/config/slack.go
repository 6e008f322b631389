package config

import (
	"github.com/m-mizutani/goerr/v2"
	slackservice "github.com/munim-lab/munim/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the admin approval console
type Slack struct {
	botToken      string
	signingSecret string
	channelID     string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for the approval console (xoxb-...)",
			Sources:     cli.EnvVars("MUNIM_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for interaction webhook verification",
			Sources:     cli.EnvVars("MUNIM_SLACK_SIGNING_SECRET"),
			Destination: &s.signingSecret,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID where approval requests are posted",
			Sources:     cli.EnvVars("MUNIM_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// IsConfigured reports whether the console can post messages
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channelID != ""
}

// SigningSecret returns the webhook signing secret
func (s *Slack) SigningSecret() string {
	return s.signingSecret
}

// ChannelID returns the approval channel ID
func (s *Slack) ChannelID() string {
	return s.channelID
}

// Configure builds the Slack console service. Returns nil when not
// configured; approvals then live on the REST admin API only.
func (s *Slack) Configure() (slackservice.Service, error) {
	if s.botToken == "" {
		return nil, nil
	}
	if s.channelID == "" {
		return nil, goerr.New("slack-channel-id is required when slack-bot-token is set")
	}

	return slackservice.New(s.botToken)
}
