package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/channel"
	"github.com/munim-lab/munim/pkg/utils/async"
	"github.com/munim-lab/munim/pkg/utils/errutil"
	"github.com/munim-lab/munim/pkg/utils/logging"
)

// telegramWebhookHandler accepts Telegram bot webhook updates. The
// pipeline reply is returned inline via the webhook response
// (sendMessage method call), which saves one API round trip.
func (s *Server) telegramWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode telegram update"), http.StatusBadRequest)
		return
	}

	if update.Message == nil || update.Message.Text == "" || update.Message.Chat == nil {
		// Edited messages, stickers and join events are not inbound requests
		w.WriteHeader(http.StatusOK)
		return
	}

	result, err := s.uc.HandleInbound(ctx, &model.InboundMessage{
		ActorID:    channel.TelegramActorID(update.Message.Chat.ID),
		Channel:    types.ChannelTelegram,
		Text:       update.Message.Text,
		ReceivedAt: time.Unix(int64(update.Message.Date), 0).UTC(),
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"method":  "sendMessage",
		"chat_id": update.Message.Chat.ID,
		"text":    result.Reply,
	})
}

// whatsappVerifyHandler answers the Graph API webhook subscription
// handshake.
func (s *Server) whatsappVerifyHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != s.whatsappVerifyTok {
		errutil.HandleHTTP(r.Context(), w, goerr.New("webhook verification failed"), http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(q.Get("hub.challenge"))) //nolint:errcheck // header already committed
}

// whatsappPayload is the subset of the Graph API webhook payload this
// handler reads
type whatsappPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (s *Server) whatsappWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload whatsappPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode whatsapp payload"), http.StatusBadRequest)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}

				result, err := s.uc.HandleInbound(ctx, &model.InboundMessage{
					ActorID:    channel.WhatsAppActorID(msg.From),
					Channel:    types.ChannelWhatsApp,
					Text:       msg.Text.Body,
					ReceivedAt: time.Now().UTC(),
				})
				if err != nil {
					errutil.Handle(ctx, err, "failed to handle whatsapp message")
					continue
				}

				// The Graph API wants a fast 200; the reply goes out on
				// its own goroutine after the ack.
				actorID := channel.WhatsAppActorID(msg.From)
				async.Dispatch(ctx, func(ctx context.Context) error {
					s.replyWhatsApp(ctx, actorID, result.Reply)
					return nil
				})
			}
		}
	}

	// The Graph API retries on non-200; processing errors are logged
	// above, never surfaced.
	w.WriteHeader(http.StatusOK)
}

func (s *Server) replyWhatsApp(ctx context.Context, actorID types.ActorID, text string) {
	adapter, err := s.uc.Channels().Get(types.ChannelWhatsApp)
	if err != nil {
		logging.From(ctx).Warn("no whatsapp adapter for reply", "error", err)
		return
	}
	if err := adapter.Send(ctx, actorID, text); err != nil {
		errutil.Handle(ctx, err, "failed to send whatsapp reply")
	}
}

// webMessageHandler accepts a browser-form message and returns the
// pipeline reply inline.
func (s *Server) webMessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode web message"), http.StatusBadRequest)
		return
	}
	if body.SessionID == "" || body.Text == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("session_id and text are required"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.HandleInbound(ctx, &model.InboundMessage{
		ActorID:    channel.WebActorID(body.SessionID),
		Channel:    types.ChannelWeb,
		Text:       body.Text,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{Reply: result.Reply})
}

// webPollHandler drains queued outbound messages (decision outcomes)
// for a web session. The web transport has no push channel, so the
// browser polls.
func (s *Server) webPollHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		errutil.HandleHTTP(r.Context(), w, goerr.New("session_id is required"), http.StatusBadRequest)
		return
	}

	messages := s.webAdapter.Drain(channel.WebActorID(sessionID))
	if messages == nil {
		messages = []string{}
	}
	writeJSON(w, r, http.StatusOK, struct {
		Messages []string `json:"messages"`
	}{Messages: messages})
}
