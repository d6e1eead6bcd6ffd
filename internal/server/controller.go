package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/inforequest"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

// Controller handles the information-request API.
type Controller struct {
	service   *inforequest.Service
	store     *inforequest.Store
	offers    offerCreator
	extractor claimExtractor
	credName  string
}

// VPTokenRequest carries an OID4VP vp_token value.
type VPTokenRequest struct {
	VPToken json.RawMessage `json:"vp_token"`
}

// SetFieldRequest is the body of a field update.
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SubmitRequest selects the credential to offer; empty uses the configured type.
type SubmitRequest struct {
	CredentialType string `json:"credentialType"`
}

// SubmitResponse is the offer minted for a submitted session.
type SubmitResponse struct {
	URI                  string `json:"uri"`
	PreAuthCode          string `json:"preAuthCode"`
	CredentialName       string `json:"credentialName,omitempty"`
	ManualIdentification bool   `json:"isManualIdentification"`
}

// ClaimsResponse lists every candidate claim set and the one a session would use.
type ClaimsResponse struct {
	Candidates []form.Payload `json:"candidates"`
	Selected   form.Payload   `json:"selected,omitempty"`
}

// CreateSession starts a session seeded from the posted vp_token.
// POST /api/sessions
func (c *Controller) CreateSession(ctx echo.Context) error {
	var req VPTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	session, err := c.service.StartFromJSON(ctx.Request().Context(), req.VPToken)
	if err != nil {
		return err
	}

	if err := c.store.Put(session); err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, session.State())
}

// GetSession returns the state of a session.
// GET /api/sessions/:id
func (c *Controller) GetSession(ctx echo.Context) error {
	session, err := c.store.Get(ctx.Param("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, session.State())
}

// SetField updates one field of a session.
// PUT /api/sessions/:id/fields/:key
func (c *Controller) SetField(ctx echo.Context) error {
	session, err := c.store.Get(ctx.Param("id"))
	if err != nil {
		return err
	}

	var req SetFieldRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := session.Set(ctx.Param("key"), req.Value); err != nil {
		logger.Debugc(ctx.Request().Context(), "field update rejected",
			logfields.WithSessionID(session.ID()), logfields.WithField(ctx.Param("key")))
		return err
	}

	return ctx.JSON(http.StatusOK, session.State())
}

// Submit finishes a session and asks the issuance agent for a credential offer.
// The session is removed once the offer exists.
// POST /api/sessions/:id/submit
func (c *Controller) Submit(ctx echo.Context) error {
	session, err := c.store.Get(ctx.Param("id"))
	if err != nil {
		return err
	}

	var req SubmitRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	submission, err := session.Submit()
	if err != nil {
		return err
	}

	created, err := c.offers.CreateOffer(ctx.Request().Context(), submission.Payload, req.CredentialType)
	if err != nil {
		return err
	}

	c.store.Remove(session.ID())

	logger.Infoc(ctx.Request().Context(), "information request submitted",
		logfields.WithSessionID(session.ID()), logfields.WithCredentialType(req.CredentialType))

	return ctx.JSON(http.StatusOK, SubmitResponse{
		URI:                  created.URI,
		PreAuthCode:          created.PreAuthCode,
		CredentialName:       c.credName,
		ManualIdentification: submission.ManualIdentification,
	})
}

// ExtractClaims returns the candidate claim sets of a vp_token without starting a session.
// POST /api/claims
func (c *Controller) ExtractClaims(ctx echo.Context) error {
	var req VPTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	token, err := vptoken.ParseToken(req.VPToken)
	if err != nil {
		return err
	}

	candidates, err := c.extractor.ExtractClaimSets(ctx.Request().Context(), token)
	if err != nil {
		return err
	}

	resp := ClaimsResponse{Candidates: candidates}
	if best, ok := vptoken.SelectRichest(candidates); ok {
		resp.Selected = best
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetSchema returns the form schema, or the fallback fields when none is configured.
// GET /api/schema
func (c *Controller) GetSchema(ctx echo.Context) error {
	schema := c.service.Schema()
	if schema == nil {
		schema = form.FallbackSchema()
	}

	return ctx.JSON(http.StatusOK, schema)
}
