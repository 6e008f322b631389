package classifier_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/classifier"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func newMockClient(response string, err error) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					if err != nil {
						return nil, err
					}
					return &gollem.Response{Texts: []string{response}}, nil
				},
			}, nil
		},
	}
}

func TestLLMClassify(t *testing.T) {
	response := `{
		"intent": "create_order",
		"proposed_action": "create_order",
		"confidence": 0.92,
		"urgent": true,
		"entities": {
			"amount": 6000,
			"quantity": 2,
			"items": [{"name": "rice bag", "quantity": 2, "unit_price": 3000}],
			"customer_name": "Ramesh",
			"customer_phone": "+919812345678"
		}
	}`

	c, err := classifier.NewLLM(newMockClient(response, nil))
	gt.NoError(t, err).Required()

	result, err := c.Classify(context.Background(), "2 rice bags, urgent", nil)
	gt.NoError(t, err).Required()

	gt.Value(t, result.Intent).Equal(types.ActionCreateOrder)
	gt.Value(t, result.ProposedAction).Equal(types.ActionCreateOrder)
	gt.Value(t, result.Confidence).Equal(0.92)
	gt.Bool(t, result.Urgent).True()
	gt.Value(t, result.Entities.Amount).Equal(6000.0)
	gt.Array(t, result.Entities.Items).Length(1)
	gt.Value(t, result.Entities.Items[0].Name).Equal("rice bag")
}

func TestLLMClassify_ProposedActionDefaultsToIntent(t *testing.T) {
	response := `{"intent": "general_query", "confidence": 0.8, "entities": {}}`

	c, err := classifier.NewLLM(newMockClient(response, nil))
	gt.NoError(t, err).Required()

	result, err := c.Classify(context.Background(), "what time do you open?", nil)
	gt.NoError(t, err).Required()
	gt.Value(t, result.ProposedAction).Equal(types.ActionGeneralQuery)
}

func TestLLMClassify_MalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not JSON":          "I think this is an order request.",
		"unknown intent":    `{"intent": "launch_rocket", "confidence": 0.9}`,
		"bad confidence":    `{"intent": "create_order", "confidence": 1.5}`,
		"unknown action":    `{"intent": "create_order", "proposed_action": "noop", "confidence": 0.9}`,
	}

	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := classifier.NewLLM(newMockClient(response, nil))
			gt.NoError(t, err).Required()

			_, err = c.Classify(context.Background(), "hello", nil)
			gt.Value(t, err).NotNil()
		})
	}
}

func TestLLMClassify_GenerationError(t *testing.T) {
	c, err := classifier.NewLLM(newMockClient("", context.DeadlineExceeded))
	gt.NoError(t, err).Required()

	_, err = c.Classify(context.Background(), "hello", nil)
	gt.Value(t, err).NotNil()
}

func TestNewLLM_RequiresClient(t *testing.T) {
	_, err := classifier.NewLLM(nil)
	gt.Value(t, err).NotNil()
}
