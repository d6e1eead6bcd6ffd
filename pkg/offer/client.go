//go:generate mockgen -destination client_mocks_test.go -package offer -source=client.go -mock_names httpClient=MockHTTPClient

// Package offer asks an OID4VCI issuance agent to mint pre-authorized credential offers.
package offer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
	"go.uber.org/zap"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/internal/metrics"
	"github.com/sirosfoundation/vcionboard/pkg/form"
)

var logger = log.New("offer")

// DefaultOfferPath is the agent endpoint that creates offer URIs
const DefaultOfferPath = "/webapp/credential-offers"

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines configuration for Client.
type Config struct {
	// AgentBaseURL is the issuance agent; offers cannot be created without it
	AgentBaseURL string

	// CredentialIssuer is announced in the offer; defaults to AgentBaseURL
	CredentialIssuer string

	// OfferPath is appended to AgentBaseURL; defaults to DefaultOfferPath
	OfferPath string

	// CredentialType is used when CreateOffer gets no explicit type
	CredentialType string

	HTTPClient httpClient
	Metrics    metrics.Metrics
}

// Client creates credential offers.
type Client struct {
	agentBaseURL     string
	credentialIssuer string
	offerPath        string
	credentialType   string
	httpClient       httpClient
	metrics          metrics.Metrics
	newCode          func() string
}

// NewClient returns a new Client instance.
func NewClient(config *Config) *Client {
	c := &Client{
		agentBaseURL:     strings.TrimRight(config.AgentBaseURL, "/"),
		credentialIssuer: config.CredentialIssuer,
		offerPath:        config.OfferPath,
		credentialType:   config.CredentialType,
		httpClient:       config.HTTPClient,
		metrics:          config.Metrics,
		newCode:          NewPreAuthorizedCode,
	}

	if c.credentialIssuer == "" {
		c.credentialIssuer = config.AgentBaseURL
	}
	if c.offerPath == "" {
		c.offerPath = DefaultOfferPath
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.metrics == nil {
		c.metrics = metrics.Noop{}
	}

	return c
}

// CreateOffer hands payload to the issuance agent and returns the offer URI
// together with its pre-authorized code. credentialType overrides the
// configured type. Missing configuration is reported as *ConfigurationError
// before any request is sent.
func (c *Client) CreateOffer(ctx context.Context, payload form.Payload, credentialType string) (*Offer, error) {
	if c.agentBaseURL == "" {
		c.metrics.CredentialOffer(metrics.OutcomeConfigError, 0)
		return nil, &ConfigurationError{Setting: "oid4vci_agent_base_url"}
	}

	if credentialType == "" {
		credentialType = c.credentialType
	}
	if credentialType == "" {
		c.metrics.CredentialOffer(metrics.OutcomeConfigError, 0)
		return nil, &ConfigurationError{Setting: "issue_credential_type"}
	}

	code := c.newCode()

	req := &CreateOfferRequest{
		CredentialIssuer: c.credentialIssuer,
		Grants: Grants{
			PreAuthorizedCode: &PreAuthorizedCodeGrant{PreAuthorizedCode: code},
		},
		CredentialDataSupplierInput: payload.Clone(),
		CredentialConfigurationIDs:  []string{credentialType},
	}
	if req.CredentialDataSupplierInput == nil {
		req.CredentialDataSupplierInput = form.Payload{}
	}

	start := time.Now()

	resp, err := c.requestOffer(ctx, req)
	if err != nil {
		c.metrics.CredentialOffer(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("offer: create credential offer: %w", err)
	}

	c.metrics.CredentialOffer(metrics.OutcomeSuccess, time.Since(start))

	logger.Infoc(ctx, "credential offer created",
		logfields.WithCredentialType(credentialType), zap.String("uri", resp.URI))

	return &Offer{
		URI:         resp.URI,
		PreAuthCode: code,
	}, nil
}

func (c *Client) requestOffer(ctx context.Context, offerReq *CreateOfferRequest) (*CreateOfferResponse, error) {
	payload, err := json.Marshal(offerReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.agentBaseURL + c.offerPath

	logger.Debugc(ctx, "request credential offer", zap.String("url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Add("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status code: %d, msg: %s", resp.StatusCode, string(b))
	}

	var result CreateOfferResponse

	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.URI == "" {
		return nil, fmt.Errorf("decode response: uri is empty")
	}

	return &result, nil
}
