// Package inforequest runs information-request sessions: a vp_token seeds a
// form, the holder completes it, and the finished payload is submitted.
package inforequest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/internal/metrics"
	"github.com/sirosfoundation/vcionboard/pkg/defaults"
	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

var logger = log.New("inforequest")

type claimExtractor interface {
	ExtractClaimSets(ctx context.Context, token vptoken.Token) ([]form.Payload, error)
}

// Config defines configuration for Service.
type Config struct {
	// Schema is the form; nil means the fallback fields
	Schema     *form.Schema
	Extractor  claimExtractor
	Generators *defaults.Registry
	Metrics    metrics.Metrics
}

// Service starts information-request sessions.
type Service struct {
	schema     *form.Schema
	extractor  claimExtractor
	generators *defaults.Registry
	metrics    metrics.Metrics
}

// NewService returns a new Service instance.
func NewService(config *Config) *Service {
	s := &Service{
		schema:     config.Schema,
		extractor:  config.Extractor,
		generators: config.Generators,
		metrics:    config.Metrics,
	}

	if s.extractor == nil {
		s.extractor = vptoken.NewExtractor(vptoken.WithSchema(config.Schema))
	}
	if s.generators == nil {
		s.generators = defaults.DefaultRegistry
	}
	if s.metrics == nil {
		s.metrics = metrics.Noop{}
	}

	return s
}

// Schema returns the form schema, nil when the fallback fields are used.
func (s *Service) Schema() *form.Schema {
	return s.schema
}

// Start opens a session seeded from token. A token that cannot be decoded is
// logged and the session starts from the empty form. Only a misconfigured
// field default fails the call.
func (s *Service) Start(ctx context.Context, token vptoken.Token) (*Session, error) {
	id := uuid.NewString()
	source := form.Payload{}
	fromWallet := false

	candidates, err := s.extractor.ExtractClaimSets(ctx, token)

	switch {
	case err != nil:
		s.decodeFailed(ctx, id, err)

	default:
		best, ok := vptoken.SelectRichest(candidates)
		if ok && best.Populated() > 0 {
			source = best.Clone()
			fromWallet = true
			s.metrics.VPTokenExtraction(metrics.OutcomeSuccess)
		} else {
			s.metrics.VPTokenExtraction(metrics.OutcomeEmpty)
		}

		logger.Debugc(ctx, "selected claim set",
			logfields.WithSessionID(id), logfields.WithCandidates(len(candidates)),
			logfields.WithPopulated(source.Populated()), logfields.WithClaimKeys(source.PopulatedKeys()))
	}

	return s.open(ctx, id, source, fromWallet)
}

// StartFromJSON parses a JSON vp_token and starts a session from it. A value
// that does not parse is treated like a token that does not decode.
func (s *Service) StartFromJSON(ctx context.Context, raw []byte) (*Session, error) {
	token, err := vptoken.ParseToken(raw)
	if err != nil {
		id := uuid.NewString()
		s.decodeFailed(ctx, id, err)

		return s.open(ctx, id, form.Payload{}, false)
	}

	return s.Start(ctx, token)
}

func (s *Service) decodeFailed(ctx context.Context, id string, err error) {
	logger.Warnc(ctx, "vp_token could not be decoded, starting with an empty form",
		logfields.WithSessionID(id), log.WithError(err))
	s.metrics.VPTokenExtraction(metrics.OutcomeDecodeError)
}

func (s *Service) open(ctx context.Context, id string, source form.Payload, fromWallet bool) (*Session, error) {
	reconciler := form.NewReconciler(s.schema, form.WithGenerators(s.generators))

	res, err := reconciler.Reconcile(source)
	if err != nil {
		return nil, fmt.Errorf("inforequest: reconcile: %w", err)
	}

	logger.Infoc(ctx, "information request started",
		logfields.WithSessionID(id), logfields.WithClaimKeys(res.ReadOnly.Keys()))

	return &Session{
		id:         id,
		schema:     s.schema,
		payload:    res.Payload,
		readOnly:   res.ReadOnly,
		fromWallet: fromWallet,
	}, nil
}
