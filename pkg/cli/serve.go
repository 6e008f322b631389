package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/munim-lab/munim/pkg/cli/config"
	httpctrl "github.com/munim-lab/munim/pkg/controller/http"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/service/business"
	"github.com/munim-lab/munim/pkg/service/classifier"
	"github.com/munim-lab/munim/pkg/usecase"
	"github.com/munim-lab/munim/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var slackCfg config.Slack
	var channelsCfg config.Channels
	var rulesCfg config.Rules
	var adminCfg config.Admin
	var exportCfg config.Export

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MUNIM_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, channelsCfg.Flags()...)
	flags = append(flags, rulesCfg.Flags()...)
	flags = append(flags, adminCfg.Flags()...)
	flags = append(flags, exportCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			rules, err := rulesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load rules")
			}

			registry, web, err := channelsCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure channels")
			}

			var intentClassifier interfaces.IntentClassifier
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				intentClassifier, err = classifier.NewLLM(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to build LLM classifier")
				}
				logging.Default().Info("Using LLM intent classifier")
			} else {
				intentClassifier = classifier.NewKeyword()
				logging.Default().Warn("Gemini not configured, using keyword classifier")
			}

			exporter, err := exportCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure exporter")
			}

			ucOpts := []usecase.Option{
				usecase.WithRules(rules),
				usecase.WithExporter(exporter),
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack console")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.ChannelID()))
				logging.Default().Info("Slack approval console enabled", "channel_id", slackCfg.ChannelID())
			}

			uc := usecase.New(repo, intentClassifier, business.NewMemoryStore(), registry, ucOpts...)

			authSvc, err := adminCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure admin auth")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithWebAdapter(web),
				httpctrl.WithWhatsAppVerifyToken(channelsCfg.WhatsAppVerifyToken()),
			}
			if authSvc != nil {
				httpOpts = append(httpOpts, httpctrl.WithAuth(authSvc))
			} else {
				logging.Default().Warn("Admin API authentication disabled (development only)")
			}
			if slackCfg.SigningSecret() != "" {
				httpOpts = append(httpOpts, httpctrl.WithSlackSigningSecret(slackCfg.SigningSecret()))
				logging.Default().Info("Slack interaction webhook enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
