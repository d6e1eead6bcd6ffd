package inforequest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

type fakeExtractor struct {
	payloads []form.Payload
	err      error
}

func (f *fakeExtractor) ExtractClaimSets(context.Context, vptoken.Token) ([]form.Payload, error) {
	return f.payloads, f.err
}

type countingMetrics struct {
	extractions map[string]int
}

func (m *countingMetrics) VPTokenExtraction(outcome string) {
	if m.extractions == nil {
		m.extractions = make(map[string]int)
	}
	m.extractions[outcome]++
}

func (m *countingMetrics) CredentialOffer(string, time.Duration) {}

func testSchema() *form.Schema {
	return &form.Schema{Rows: []form.Row{
		{{Key: form.KeyFirstName}, {Key: form.KeyLastName}},
		{{Key: form.KeyEmail, Type: form.TypeEmail}},
		{{Key: "customerId", DefaultValue: "*RANDOM8", Optional: true}},
	}}
}

func parseToken(t *testing.T, raw string) vptoken.Token {
	t.Helper()
	token, err := vptoken.ParseToken([]byte(raw))
	require.NoError(t, err)
	return token
}

func TestService_Start(t *testing.T) {
	t.Run("Success richest candidate seeds the form", func(t *testing.T) {
		m := &countingMetrics{}
		svc := NewService(&Config{Schema: testSchema(), Metrics: m})

		token := parseToken(t, `{"verifiableCredential": [
			{"credentialSubject": {"Voornaam": "Jan"}},
			{"credentialSubject": {"Voornaam": "Jan", "Achternaam": "Jansen"}}
		]}`)

		session, err := svc.Start(context.Background(), token)
		require.NoError(t, err)
		require.NotEmpty(t, session.ID())

		state := session.State()
		require.Equal(t, "Jan", state.Payload[form.KeyFirstName])
		require.Equal(t, "Jansen", state.Payload[form.KeyLastName])
		require.Len(t, state.Payload["customerId"], 8)
		require.Equal(t, []string{form.KeyLastName, form.KeyFirstName}, state.ReadOnly)
		require.Equal(t, []string{form.KeyEmail}, state.Missing)
		require.False(t, state.Valid)
		require.False(t, state.ManualIdentification)
		require.True(t, state.FromWallet)
		require.Equal(t, 1, m.extractions["success"])
	})

	t.Run("Success no token", func(t *testing.T) {
		m := &countingMetrics{}
		svc := NewService(&Config{Metrics: m})

		session, err := svc.Start(context.Background(), nil)
		require.NoError(t, err)

		state := session.State()
		require.Equal(t, form.Payload{form.KeyFirstName: "", form.KeyLastName: "", form.KeyEmail: ""}, state.Payload)
		require.Empty(t, state.ReadOnly)
		require.True(t, state.ManualIdentification)
		require.False(t, state.FromWallet)
		require.Equal(t, 1, m.extractions["empty"])
	})

	t.Run("Decode error degrades to the empty form", func(t *testing.T) {
		m := &countingMetrics{}
		svc := NewService(&Config{
			Schema:    testSchema(),
			Extractor: &fakeExtractor{err: &vptoken.DecodeError{Level: vptoken.LevelPresentation, Err: errors.New("bad")}},
			Metrics:   m,
		})

		session, err := svc.Start(context.Background(), parseToken(t, `"a.b.c"`))
		require.NoError(t, err)

		state := session.State()
		require.Empty(t, state.ReadOnly)
		require.Equal(t, "", state.Payload[form.KeyFirstName])
		require.False(t, state.FromWallet)
		require.Equal(t, 1, m.extractions["decode_error"])
	})

	t.Run("Error misconfigured default", func(t *testing.T) {
		schema := &form.Schema{Rows: []form.Row{{{Key: "ref", DefaultValue: "*NOPE"}}}}
		svc := NewService(&Config{Schema: schema, Extractor: &fakeExtractor{}})

		_, err := svc.Start(context.Background(), nil)
		require.ErrorContains(t, err, "unknown generator")
	})
}

func TestSession(t *testing.T) {
	svc := NewService(&Config{
		Schema:    testSchema(),
		Extractor: &fakeExtractor{payloads: []form.Payload{{form.KeyFirstName: "Jan", form.KeyLastName: "", form.KeyEmail: ""}}},
	})

	session, err := svc.Start(context.Background(), nil)
	require.NoError(t, err)

	t.Run("Error read-only field", func(t *testing.T) {
		err := session.Set(form.KeyFirstName, "Piet")
		require.ErrorIs(t, err, ErrReadOnlyField)
		require.Equal(t, "Jan", session.State().Payload[form.KeyFirstName])
	})

	t.Run("Error unknown field", func(t *testing.T) {
		require.ErrorIs(t, session.Set("nationality", "NL"), ErrUnknownField)
	})

	t.Run("Error incomplete", func(t *testing.T) {
		_, err := session.Submit()
		require.ErrorIs(t, err, ErrIncomplete)
	})

	t.Run("Success edit and submit", func(t *testing.T) {
		require.NoError(t, session.Set(form.KeyLastName, "Jansen"))
		require.NoError(t, session.Set(form.KeyEmail, "not-an-email"))

		state := session.State()
		require.True(t, state.Valid)
		require.Equal(t, []string{form.KeyEmail}, state.InvalidEmails)

		require.NoError(t, session.Set(form.KeyEmail, "jan@example.com"))
		require.NoError(t, session.Set("customerId", "12345678"))

		submission, err := session.Submit()
		require.NoError(t, err)
		require.Equal(t, "Jansen", submission.Payload[form.KeyLastName])
		require.Equal(t, "12345678", submission.Payload["customerId"])
		require.False(t, submission.ManualIdentification)

		// the submission is a copy
		submission.Payload[form.KeyLastName] = "changed"
		require.Equal(t, "Jansen", session.State().Payload[form.KeyLastName])
	})
}

func TestService_StartFromJSON(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := NewService(&Config{})

		session, err := svc.StartFromJSON(context.Background(),
			[]byte(`{"verifiableCredential": {"credentialSubject": {"emailAddress": "jan@example.com"}}}`))
		require.NoError(t, err)

		state := session.State()
		require.Equal(t, "jan@example.com", state.Payload[form.KeyEmail])
		require.Equal(t, []string{form.KeyEmail}, state.ReadOnly)
	})

	t.Run("Unparsable token degrades to the empty form", func(t *testing.T) {
		m := &countingMetrics{}
		svc := NewService(&Config{Metrics: m})

		session, err := svc.StartFromJSON(context.Background(), []byte(`42`))
		require.NoError(t, err)
		require.Empty(t, session.State().ReadOnly)
		require.Equal(t, 1, m.extractions["decode_error"])
	})
}
