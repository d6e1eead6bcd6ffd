package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/internal/metrics"
	"github.com/sirosfoundation/vcionboard/internal/server"
	"github.com/sirosfoundation/vcionboard/pkg/config"
	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/inforequest"
	"github.com/sirosfoundation/vcionboard/pkg/offer"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the information-request API",
	Long: `Run the HTTP API serving information-request sessions.

Endpoints:
  POST /api/sessions                   start a session from {"vp_token": ...}
  GET  /api/sessions/:id               session state
  PUT  /api/sessions/:id/fields/:key   update a field {"value": ...}
  POST /api/sessions/:id/submit        create the credential offer
  POST /api/claims                     inspect the claim sets of a vp_token
  GET  /api/schema                     the form
  GET  /healthz                        health checks
  GET  /metrics                        Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	schema, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	m := metrics.GetMetrics()

	service := inforequest.NewService(&inforequest.Config{
		Schema:  schema,
		Metrics: m,
	})

	e := server.New(&server.Config{
		Service:        service,
		Store:          inforequest.NewStore(cfg.SessionCapacity, cfg.SessionTTL),
		Offers:         newOfferClient(cfg, m),
		CredentialName: cfg.CredentialName,
		HealthChecks:   healthChecks(cfg, schema),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", logfields.WithListen(cfg.Listen))
		errCh <- e.Start(cfg.Listen)
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", log.WithError(err))
		return err
	}

	return nil
}

func newOfferClient(cfg *config.Config, m metrics.Metrics) *offer.Client {
	return offer.NewClient(&offer.Config{
		AgentBaseURL:     cfg.AgentBaseURL,
		CredentialIssuer: cfg.GetCredentialIssuer(),
		OfferPath:        cfg.OfferPath,
		CredentialType:   cfg.IssueCredentialType,
		HTTPClient:       &http.Client{Timeout: cfg.RequestTimeout},
		Metrics:          m,
	})
}

// healthChecks reports the form and whether credential issuance is enabled.
func healthChecks(cfg *config.Config, schema *form.Schema) []health.Check {
	return []health.Check{
		{
			Name: "form",
			Check: func(context.Context) error {
				return schema.Validate()
			},
		},
		{
			Name: "issuance",
			Check: func(context.Context) error {
				if cfg.AgentBaseURL == "" {
					return &offer.ConfigurationError{Setting: "oid4vci_agent_base_url"}
				}
				if cfg.IssueCredentialType == "" {
					return &offer.ConfigurationError{Setting: "issue_credential_type"}
				}

				return nil
			},
		},
	}
}
