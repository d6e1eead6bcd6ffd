package inforequest

import (
	"fmt"
	"sync"

	"github.com/sirosfoundation/vcionboard/pkg/form"
)

// Session is the state of one information-request page: the payload the
// holder and wallet converge on, and which of its keys the wallet proved.
type Session struct {
	mu sync.Mutex

	id         string
	schema     *form.Schema
	payload    form.Payload
	readOnly   form.KeySet
	fromWallet bool
}

// State is a snapshot of a session.
type State struct {
	ID                   string       `json:"id"`
	Payload              form.Payload `json:"payload"`
	ReadOnly             []string     `json:"readOnly"`
	Missing              []string     `json:"missing"`
	InvalidEmails        []string     `json:"invalidEmails,omitempty"`
	Valid                bool         `json:"valid"`
	ManualIdentification bool         `json:"manualIdentification"`
	FromWallet           bool         `json:"fromWallet"`
}

// Submission is handed to the next step of the flow.
type Submission struct {
	Payload              form.Payload `json:"payload"`
	ManualIdentification bool         `json:"isManualIdentification"`
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		ID:                   s.id,
		Payload:              s.payload.Clone(),
		ReadOnly:             s.readOnly.Keys(),
		Missing:              form.MissingKeys(s.payload, s.schema),
		InvalidEmails:        form.InvalidEmails(s.payload, s.schema),
		Valid:                form.IsValid(s.payload, s.schema),
		ManualIdentification: form.ManualIdentification(s.payload),
		FromWallet:           s.fromWallet,
	}
}

// Set updates a field. Wallet-sourced fields cannot be changed.
func (s *Session) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payload[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	if s.readOnly.Has(key) {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, key)
	}

	s.payload[key] = value

	return nil
}

// Submit returns the payload by value once every required field is filled.
func (s *Session) Submit() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if missing := form.MissingKeys(s.payload, s.schema); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncomplete, missing)
	}

	return &Submission{
		Payload:              s.payload.Clone(),
		ManualIdentification: form.ManualIdentification(s.payload),
	}, nil
}
