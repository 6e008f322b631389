package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/service/auth"
	"github.com/urfave/cli/v3"
)

// Admin holds CLI flags for admin API authentication
type Admin struct {
	tokenSecret string
	apiKey      string
}

// Flags returns CLI flags for admin auth configuration
func (a *Admin) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "admin-token-secret",
			Usage:       "Secret for signing admin API tokens",
			Sources:     cli.EnvVars("MUNIM_ADMIN_TOKEN_SECRET"),
			Destination: &a.tokenSecret,
		},
		&cli.StringFlag{
			Name:        "admin-api-key",
			Usage:       "Shared key exchanged for admin tokens at login",
			Sources:     cli.EnvVars("MUNIM_ADMIN_API_KEY"),
			Destination: &a.apiKey,
		},
	}
}

// Configure builds the admin token service. Returns nil when neither
// flag is set, leaving the admin API unauthenticated (development
// only); setting only one of the two is a configuration error.
func (a *Admin) Configure() (*auth.Service, error) {
	if a.tokenSecret == "" && a.apiKey == "" {
		return nil, nil
	}
	if a.tokenSecret == "" || a.apiKey == "" {
		return nil, goerr.New("admin-token-secret and admin-api-key must be set together")
	}
	return auth.New(a.tokenSecret, a.apiKey)
}
