package usecase

import (
	"time"

	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model/config"
	"github.com/munim-lab/munim/pkg/service/channel"
	"github.com/munim-lab/munim/pkg/service/rule"
	slackservice "github.com/munim-lab/munim/pkg/service/slack"
)

// historyContextTurns is how many past turns are handed to the
// classifier as conversation context
const historyContextTurns = 10

type UseCases struct {
	repo       interfaces.Repository
	classifier interfaces.IntentClassifier
	evaluator  *rule.Evaluator
	store      interfaces.BusinessStore
	exporter   interfaces.Exporter
	channels   *channel.Registry

	slackService   slackservice.Service
	slackChannelID string

	notifyAttempts int
	notifyBackoff  time.Duration
}

type Option func(*UseCases)

// WithRules overrides the default business-rule thresholds
func WithRules(rules *config.Rules) Option {
	return func(uc *UseCases) {
		uc.evaluator = rule.New(rules)
	}
}

// WithSlack connects the admin console channel
func WithSlack(svc slackservice.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannelID = channelID
	}
}

// WithExporter sets the data export sink
func WithExporter(exporter interfaces.Exporter) Option {
	return func(uc *UseCases) {
		uc.exporter = exporter
	}
}

// WithNotifyRetry tunes the notification retry policy, mainly for tests
func WithNotifyRetry(attempts int, backoff time.Duration) Option {
	return func(uc *UseCases) {
		uc.notifyAttempts = attempts
		uc.notifyBackoff = backoff
	}
}

// Channels exposes the outbound adapter registry to controllers that
// reply on the inbound transport directly
func (uc *UseCases) Channels() *channel.Registry {
	return uc.channels
}

func New(repo interfaces.Repository, classifier interfaces.IntentClassifier, store interfaces.BusinessStore, channels *channel.Registry, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		classifier:     classifier,
		evaluator:      rule.New(nil),
		store:          store,
		channels:       channels,
		notifyAttempts: 3,
		notifyBackoff:  500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
