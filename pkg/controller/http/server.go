package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/munim-lab/munim/pkg/service/auth"
	"github.com/munim-lab/munim/pkg/service/channel"
	"github.com/munim-lab/munim/pkg/usecase"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases

	authService        *auth.Service
	webAdapter         *channel.Web
	whatsappVerifyTok  string
	slackSigningSecret string
}

type Options func(*Server)

// WithAuth guards the admin API with signed tokens. Without it the
// admin API is open, which is only acceptable for local development.
func WithAuth(svc *auth.Service) Options {
	return func(s *Server) {
		s.authService = svc
	}
}

// WithWebAdapter enables the web form webhook and its polling endpoint
func WithWebAdapter(adapter *channel.Web) Options {
	return func(s *Server) {
		s.webAdapter = adapter
	}
}

// WithWhatsAppVerifyToken sets the token echoed during Graph API
// webhook subscription
func WithWhatsAppVerifyToken(token string) Options {
	return func(s *Server) {
		s.whatsappVerifyTok = token
	}
}

// WithSlackSigningSecret enables the Slack interaction webhook
func WithSlackSigningSecret(secret string) Options {
	return func(s *Server) {
		s.slackSigningSecret = secret
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck // header already committed
	})

	if s.authService != nil {
		r.Post("/api/auth/login", authLoginHandler(s.authService))
	}

	r.Route("/api", func(r chi.Router) {
		if s.authService != nil {
			r.Use(adminAuthMiddleware(s.authService))
		}
		r.Get("/approvals", s.listApprovalsHandler)
		r.Get("/approvals/count", s.countApprovalsHandler)
		r.Get("/approvals/{id}", s.getApprovalHandler)
		r.Post("/approvals/{id}/decision", s.decisionHandler)
		r.Get("/audit", s.listAuditHandler)
		r.Get("/audit/{actorID}", s.listAuditByActorHandler)
	})

	r.Route("/hooks", func(r chi.Router) {
		r.Post("/telegram", s.telegramWebhookHandler)
		r.Get("/whatsapp", s.whatsappVerifyHandler)
		r.Post("/whatsapp", s.whatsappWebhookHandler)

		if s.webAdapter != nil {
			r.Post("/web", s.webMessageHandler)
			r.Get("/web/poll", s.webPollHandler)
		}

		if s.slackSigningSecret != "" {
			r.Route("/slack", func(r chi.Router) {
				r.Use(slackSignatureMiddleware(s.slackSigningSecret))
				r.Post("/interaction", s.slackInteractionHandler)
			})
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
