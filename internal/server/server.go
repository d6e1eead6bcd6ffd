// Package server exposes information-request sessions over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/alexliesenfeld/health"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/internal/metrics"
	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/inforequest"
	"github.com/sirosfoundation/vcionboard/pkg/offer"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

var logger = log.New("server")

type offerCreator interface {
	CreateOffer(ctx context.Context, payload form.Payload, credentialType string) (*offer.Offer, error)
}

type claimExtractor interface {
	ExtractClaimSets(ctx context.Context, token vptoken.Token) ([]form.Payload, error)
}

// Config defines configuration for the HTTP server.
type Config struct {
	Service   *inforequest.Service
	Store     *inforequest.Store
	Offers    offerCreator
	Extractor claimExtractor

	// CredentialName labels the offered credential in submit responses
	CredentialName string

	// HealthChecks are reported by /healthz
	HealthChecks []health.Check

	// MetricsHandler serves /metrics; defaults to the Prometheus handler
	MetricsHandler http.Handler
}

// New creates the echo instance serving the API.
func New(config *Config) *echo.Echo {
	c := &Controller{
		service:   config.Service,
		store:     config.Store,
		offers:    config.Offers,
		extractor: config.Extractor,
		credName:  config.CredentialName,
	}

	if c.extractor == nil {
		c.extractor = vptoken.NewExtractor(vptoken.WithSchema(config.Service.Schema()))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())

	api := e.Group("/api")
	api.POST("/sessions", c.CreateSession)
	api.GET("/sessions/:id", c.GetSession)
	api.PUT("/sessions/:id/fields/:key", c.SetField)
	api.POST("/sessions/:id/submit", c.Submit)
	api.POST("/claims", c.ExtractClaims)
	api.GET("/schema", c.GetSchema)

	checkerOpts := make([]health.CheckerOption, 0, len(config.HealthChecks))
	for _, check := range config.HealthChecks {
		checkerOpts = append(checkerOpts, health.WithCheck(check))
	}

	e.GET("/healthz", echo.WrapHandler(health.NewHandler(health.NewChecker(checkerOpts...))))

	metricsHandler := config.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = metrics.Handler()
	}

	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	return e
}
