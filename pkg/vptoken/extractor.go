package vptoken

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/trustbloc/logutil-go/pkg/log"
	"golang.org/x/sync/errgroup"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/pkg/form"
)

var logger = log.New("vptoken")

// claims carrying the presentation and credential objects inside a JWT payload
const (
	claimVP = "vp"
	claimVC = "vc"
)

// Extractor flattens vp_tokens into candidate payloads
type Extractor struct {
	decoder Decoder
	schema  *form.Schema
}

// Option configures an Extractor
type Option func(*Extractor)

// WithDecoder sets the compact-token decoder
func WithDecoder(d Decoder) Option {
	return func(e *Extractor) {
		e.decoder = d
	}
}

// WithSchema matches subjects against schema instead of the fallback keys
func WithSchema(s *form.Schema) Option {
	return func(e *Extractor) {
		e.schema = s
	}
}

// NewExtractor creates an extractor using the go-jose decoder unless overridden
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		decoder: JOSEDecoder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractClaimSets returns one payload per credential subject in token, in
// traversal order: presentations outer, credentials middle, subjects inner.
//
// Sibling presentations and credentials are decoded concurrently. The first
// decode failure cancels the remaining branches and fails the whole call with
// a *DecodeError; no partial result is returned.
func (e *Extractor) ExtractClaimSets(ctx context.Context, token Token) ([]form.Payload, error) {
	if len(token) == 0 {
		return []form.Payload{}, nil
	}

	payloads, err := fanOut(ctx, token, e.presentationClaims)
	if err != nil {
		return nil, err
	}

	logger.Debugc(ctx, "extracted claim sets",
		logfields.WithPresentations(len(token)), logfields.WithCandidates(len(payloads)))

	return payloads, nil
}

func fanOut[T any](ctx context.Context, items []T, fn func(context.Context, T) ([]form.Payload, error)) ([]form.Payload, error) {
	results := make([][]form.Payload, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			payloads, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = payloads
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lo.Flatten(results), nil
}

func (e *Extractor) presentationClaims(ctx context.Context, p Presentation) ([]form.Payload, error) {
	vp := p.Decoded
	if vp == nil {
		vp = &PresentationObject{}
		if err := e.decodeInto(ctx, p.Encoded, claimVP, LevelPresentation, vp); err != nil {
			return nil, err
		}
	}

	if len(vp.VerifiableCredential) == 0 {
		return nil, nil
	}

	return fanOut(ctx, vp.VerifiableCredential, e.credentialClaims)
}

func (e *Extractor) credentialClaims(ctx context.Context, c Credential) ([]form.Payload, error) {
	vc := c.Decoded
	if vc == nil {
		vc = &CredentialObject{}
		if err := e.decodeInto(ctx, c.Encoded, claimVC, LevelCredential, vc); err != nil {
			return nil, err
		}
	}

	payloads := make([]form.Payload, 0, len(vc.CredentialSubject))
	for _, subject := range vc.CredentialSubject {
		payloads = append(payloads, e.subjectPayload(subject))
	}

	return payloads, nil
}

// decodeInto decodes compact and unmarshals its claim into dest
func (e *Extractor) decodeInto(ctx context.Context, compact, claim, level string, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := e.decoder.Decode(ctx, compact)
	if err != nil {
		return &DecodeError{Level: level, Err: err}
	}

	if !gjson.ValidBytes(payload) {
		return &DecodeError{Level: level, Err: fmt.Errorf("payload is not valid JSON")}
	}

	value := gjson.GetBytes(payload, claim)
	if !value.Exists() {
		return &DecodeError{Level: level, Err: fmt.Errorf("%w: %s", ErrMissingClaim, claim)}
	}
	if !value.IsObject() {
		return &DecodeError{Level: level, Err: fmt.Errorf("claim %s is not an object", claim)}
	}

	if err := json.Unmarshal([]byte(value.Raw), dest); err != nil {
		return &DecodeError{Level: level, Err: err}
	}

	return nil
}

// subjectPayload maps a credential subject onto the schema template. Without
// a schema only the fallback keys the subject carries are kept.
func (e *Extractor) subjectPayload(subject Subject) form.Payload {
	if e.schema == nil {
		payload := make(form.Payload)
		for _, key := range form.FallbackKeys {
			if raw, ok := subject[key]; ok {
				payload[key] = claimValue(raw)
			}
		}
		return payload
	}

	payload := form.Template(e.schema)
	for key := range payload {
		if raw, ok := subject[key]; ok {
			payload[key] = claimValue(raw)
		}
	}
	return payload
}

// claimValue renders a claim as a string: strings unquoted, null empty,
// anything else as its JSON text.
func claimValue(raw json.RawMessage) string {
	return gjson.ParseBytes(raw).String()
}
