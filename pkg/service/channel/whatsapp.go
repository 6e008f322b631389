package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/utils/safe"
)

const defaultGraphAPIBase = "https://graph.facebook.com/v19.0"

// WhatsApp delivers messages through the WhatsApp Business Cloud API.
// There is no SDK involved; the API is a single JSON POST per message.
type WhatsApp struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	accessToken   string
}

var _ interfaces.ChannelAdapter = &WhatsApp{}

type WhatsAppOption func(*WhatsApp)

// WithWhatsAppBaseURL overrides the Graph API endpoint, for tests
func WithWhatsAppBaseURL(baseURL string) WhatsAppOption {
	return func(c *WhatsApp) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithWhatsAppHTTPClient overrides the HTTP client
func WithWhatsAppHTTPClient(client *http.Client) WhatsAppOption {
	return func(c *WhatsApp) {
		c.httpClient = client
	}
}

func NewWhatsApp(phoneNumberID, accessToken string, opts ...WhatsAppOption) (*WhatsApp, error) {
	if phoneNumberID == "" || accessToken == "" {
		return nil, goerr.New("whatsapp phone number ID and access token are required")
	}

	c := &WhatsApp{
		httpClient:    http.DefaultClient,
		baseURL:       defaultGraphAPIBase,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *WhatsApp) Channel() types.Channel {
	return types.ChannelWhatsApp
}

type whatsAppMessage struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

func (c *WhatsApp) Send(ctx context.Context, actorID types.ActorID, text string) error {
	to, ok := strings.CutPrefix(actorID.String(), "whatsapp:")
	if !ok {
		return goerr.New("actor ID is not a whatsapp address", goerr.V("actor_id", actorID))
	}

	body, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             whatsAppTextBody{Body: text},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal whatsapp message")
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create whatsapp request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send whatsapp message", goerr.V("actor_id", actorID))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("whatsapp API returned an error",
			goerr.V("actor_id", actorID),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)))
	}

	return nil
}

// WhatsAppActorID builds the canonical actor ID for a whatsapp number
func WhatsAppActorID(phone string) types.ActorID {
	return types.ActorID("whatsapp:" + phone)
}
