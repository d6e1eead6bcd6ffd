package offer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/vcionboard/pkg/form"
)

// agentStub serves the create-offer endpoint and records the last request
type agentStub struct {
	requests int
	last     CreateOfferRequest
	status   int
	body     string
}

func newAgent(t *testing.T, stub *agentStub) *httptest.Server {
	t.Helper()

	e := echo.New()
	e.POST(DefaultOfferPath, func(c echo.Context) error {
		stub.requests++
		if err := c.Bind(&stub.last); err != nil {
			return err
		}
		if stub.status != 0 {
			return c.String(stub.status, stub.body)
		}
		return c.JSON(http.StatusOK, CreateOfferResponse{
			URI: "openid-credential-offer://?credential_offer_uri=https://agent.example/offers/1",
		})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_CreateOffer(t *testing.T) {
	payload := form.Payload{"Voornaam": "Jan", "Achternaam": "Jansen"}

	t.Run("Success", func(t *testing.T) {
		stub := &agentStub{}
		srv := newAgent(t, stub)

		client := NewClient(&Config{
			AgentBaseURL:   srv.URL + "/",
			CredentialType: "DemoCredential",
		})

		offer, err := client.CreateOffer(context.Background(), payload, "")
		require.NoError(t, err)

		require.Equal(t, "openid-credential-offer://?credential_offer_uri=https://agent.example/offers/1", offer.URI)
		require.NotEmpty(t, offer.PreAuthCode)

		require.Equal(t, 1, stub.requests)
		require.Equal(t, srv.URL+"/", stub.last.CredentialIssuer)
		require.Equal(t, []string{"DemoCredential"}, stub.last.CredentialConfigurationIDs)
		require.Equal(t, payload, stub.last.CredentialDataSupplierInput)
		require.NotNil(t, stub.last.Grants.PreAuthorizedCode)
		require.Equal(t, offer.PreAuthCode, stub.last.Grants.PreAuthorizedCode.PreAuthorizedCode)
	})

	t.Run("Success explicit credential type and issuer", func(t *testing.T) {
		stub := &agentStub{}
		srv := newAgent(t, stub)

		client := NewClient(&Config{
			AgentBaseURL:     srv.URL,
			CredentialIssuer: "https://issuer.example",
			CredentialType:   "DemoCredential",
		})

		_, err := client.CreateOffer(context.Background(), payload, "EmployeeCredential")
		require.NoError(t, err)

		require.Equal(t, "https://issuer.example", stub.last.CredentialIssuer)
		require.Equal(t, []string{"EmployeeCredential"}, stub.last.CredentialConfigurationIDs)
	})

	t.Run("Error agent base URL not set", func(t *testing.T) {
		httpClient := NewMockHTTPClient(gomock.NewController(t))
		httpClient.EXPECT().Do(gomock.Any()).Times(0)

		client := NewClient(&Config{CredentialType: "DemoCredential", HTTPClient: httpClient})

		_, err := client.CreateOffer(context.Background(), payload, "")

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "oid4vci_agent_base_url", cfgErr.Setting)
	})

	t.Run("Error credential type not set", func(t *testing.T) {
		httpClient := NewMockHTTPClient(gomock.NewController(t))
		httpClient.EXPECT().Do(gomock.Any()).Times(0)

		client := NewClient(&Config{AgentBaseURL: "https://agent.example", HTTPClient: httpClient})

		_, err := client.CreateOffer(context.Background(), payload, "")

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "issue_credential_type", cfgErr.Setting)
	})

	t.Run("Error status code", func(t *testing.T) {
		stub := &agentStub{status: http.StatusInternalServerError, body: "agent down"}
		srv := newAgent(t, stub)

		client := NewClient(&Config{AgentBaseURL: srv.URL, CredentialType: "DemoCredential"})

		_, err := client.CreateOffer(context.Background(), payload, "")
		require.ErrorContains(t, err, "status code: 500")
		require.ErrorContains(t, err, "agent down")
	})

	t.Run("Error empty uri", func(t *testing.T) {
		stub := &agentStub{status: http.StatusOK, body: "{}"}
		srv := newAgent(t, stub)

		client := NewClient(&Config{AgentBaseURL: srv.URL, CredentialType: "DemoCredential"})

		_, err := client.CreateOffer(context.Background(), payload, "")
		require.ErrorContains(t, err, "uri is empty")
	})

	t.Run("Error send request", func(t *testing.T) {
		httpClient := NewMockHTTPClient(gomock.NewController(t))
		httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused"))

		client := NewClient(&Config{
			AgentBaseURL:   "https://agent.example",
			CredentialType: "DemoCredential",
			HTTPClient:     httpClient,
		})

		_, err := client.CreateOffer(context.Background(), payload, "")
		require.ErrorContains(t, err, "connection refused")
	})

	t.Run("Error undecodable body", func(t *testing.T) {
		stub := &agentStub{status: http.StatusOK, body: "not json"}
		srv := newAgent(t, stub)

		client := NewClient(&Config{AgentBaseURL: srv.URL, CredentialType: "DemoCredential"})

		_, err := client.CreateOffer(context.Background(), payload, "")
		require.ErrorContains(t, err, "decode response")
	})
}

func TestNewPreAuthorizedCode(t *testing.T) {
	a := NewPreAuthorizedCode()
	b := NewPreAuthorizedCode()

	require.NotEqual(t, a, b)

	raw, err := base58.DecodeAlphabet(a, base58.FlickrAlphabet)
	require.NoError(t, err)
	require.Len(t, raw, 16)
}
