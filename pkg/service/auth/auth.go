package auth

import (
	"crypto/subtle"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

const defaultTokenTTL = 12 * time.Hour

// Service issues and verifies signed admin tokens for the REST API.
// Tokens are HMAC-signed JWTs; the login exchange trades the shared
// API key for a short-lived token.
type Service struct {
	secret []byte
	apiKey string
	ttl    time.Duration
}

type Option func(*Service)

// WithTokenTTL overrides the token lifetime
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func New(secret, apiKey string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, goerr.New("admin token secret is empty")
	}
	if apiKey == "" {
		return nil, goerr.New("admin API key is empty")
	}

	s := &Service{
		secret: []byte(secret),
		apiKey: apiKey,
		ttl:    defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login exchanges the shared API key for a signed token
func (s *Service) Login(adminID, apiKey string) (string, error) {
	if adminID == "" {
		return "", goerr.New("admin ID is empty")
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) != 1 {
		return "", goerr.New("invalid API key", goerr.V("admin_id", adminID))
	}

	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(adminID).
		IssuedAt(now).
		Expiration(now.Add(s.ttl)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return string(signed), nil
}

// Verify validates a signed token and returns the admin ID
func (s *Service) Verify(signed string) (string, error) {
	token, err := jwt.Parse([]byte(signed),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", goerr.Wrap(err, "invalid admin token")
	}

	adminID := token.Subject()
	if adminID == "" {
		return "", goerr.New("token has no subject")
	}
	return adminID, nil
}
