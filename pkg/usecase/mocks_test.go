package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/repository/memory"
	"github.com/munim-lab/munim/pkg/service/business"
	"github.com/munim-lab/munim/pkg/service/channel"
	"github.com/munim-lab/munim/pkg/usecase"
	"github.com/slack-go/slack"
)

type mockClassifier struct {
	mu             sync.Mutex
	classification *model.Classification
	err            error
	calls          int
}

func (m *mockClassifier) Classify(ctx context.Context, text string, history []model.ConversationTurn) (*model.Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = m.calls + 1
	if m.err != nil {
		return nil, m.err
	}
	c := *m.classification
	return &c, nil
}

func (m *mockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockAdapter struct {
	mu       sync.Mutex
	ch       types.Channel
	sent     []string
	failures int // fail the first N sends
}

func (m *mockAdapter) Channel() types.Channel {
	return m.ch
}

func (m *mockAdapter) Send(ctx context.Context, actorID types.ActorID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return goerr.New("transport unavailable")
	}
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockAdapter) sentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.sent...)
}

type mockSlackService struct {
	mu      sync.Mutex
	posts   []string // channel IDs
	updates []string // timestamps
	postErr error
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", m.postErr
	}
	m.posts = append(m.posts, channelID)
	return "1700000000.000100", nil
}

func (m *mockSlackService) UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []slack.Block, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, timestamp)
	return nil
}

func (m *mockSlackService) postCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

func (m *mockSlackService) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

type testEnv struct {
	uc      *usecase.UseCases
	repo    *memory.Memory
	store   *business.MemoryStore
	adapter *mockAdapter
	slack   *mockSlackService
}

func newTestEnv(t *testing.T, classifier *mockClassifier, opts ...usecase.Option) *testEnv {
	t.Helper()

	repo := memory.New()
	t.Cleanup(func() { _ = repo.Close() })

	store := business.NewMemoryStore()
	adapter := &mockAdapter{ch: types.ChannelTelegram}
	slackSvc := &mockSlackService{}

	exporter, err := business.NewFileExporter(t.TempDir())
	if err != nil {
		t.Fatalf("failed to build exporter: %v", err)
	}

	base := []usecase.Option{
		usecase.WithSlack(slackSvc, "C-ADMIN"),
		usecase.WithExporter(exporter),
		usecase.WithNotifyRetry(2, time.Millisecond),
	}
	uc := usecase.New(repo, classifier, store, channel.NewRegistry(adapter), append(base, opts...)...)

	return &testEnv{
		uc:      uc,
		repo:    repo,
		store:   store,
		adapter: adapter,
		slack:   slackSvc,
	}
}

func inbound(actorID types.ActorID, text string) *model.InboundMessage {
	return &model.InboundMessage{
		ActorID:    actorID,
		Channel:    types.ChannelTelegram,
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}
}
