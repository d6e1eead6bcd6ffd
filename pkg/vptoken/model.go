// Package vptoken normalizes OID4VP vp_token values into candidate claim payloads.
//
// A vp_token is one presentation or a list of them. Every presentation and
// every credential it carries is either compact-serialized (a JWT whose vp or
// vc claim holds the object) or already decoded. Both shapes are modelled as
// an Encoded/Decoded pair per level, and single-or-many fields as List.
package vptoken

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List is a JSON field that may hold a single value or an array of values.
// A scalar unmarshals into a one-element list; null into an empty one.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler
func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// MarshalJSON implements json.Marshaler. A one-element list is written as the bare element.
func (l List[T]) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]T(l))
}

// Token is a vp_token: one or more presentations
type Token = List[Presentation]

// Presentation is a verifiable presentation, either compact-serialized or decoded
type Presentation struct {
	Encoded string
	Decoded *PresentationObject
}

// PresentationObject is the decoded structure of a presentation
type PresentationObject struct {
	Holder               string           `json:"holder,omitempty"`
	VerifiableCredential List[Credential] `json:"verifiableCredential,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Presentation) UnmarshalJSON(data []byte) error {
	encoded, decoded, err := unmarshalVariant[PresentationObject](data)
	if err != nil {
		return fmt.Errorf("presentation: %w", err)
	}
	p.Encoded, p.Decoded = encoded, decoded
	return nil
}

// MarshalJSON implements json.Marshaler
func (p Presentation) MarshalJSON() ([]byte, error) {
	if p.Decoded != nil {
		return json.Marshal(p.Decoded)
	}
	return json.Marshal(p.Encoded)
}

// Credential is a verifiable credential, either compact-serialized or decoded
type Credential struct {
	Encoded string
	Decoded *CredentialObject
}

// CredentialObject is the decoded structure of a credential
type CredentialObject struct {
	Issuer            json.RawMessage `json:"issuer,omitempty"`
	CredentialSubject List[Subject]   `json:"credentialSubject,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Credential) UnmarshalJSON(data []byte) error {
	encoded, decoded, err := unmarshalVariant[CredentialObject](data)
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}
	c.Encoded, c.Decoded = encoded, decoded
	return nil
}

// MarshalJSON implements json.Marshaler
func (c Credential) MarshalJSON() ([]byte, error) {
	if c.Decoded != nil {
		return json.Marshal(c.Decoded)
	}
	return json.Marshal(c.Encoded)
}

// Subject holds the claims asserted about the holder, keyed by claim name
type Subject map[string]json.RawMessage

func unmarshalVariant[T any](data []byte) (string, *T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", nil, err
		}
		return s, nil, nil
	case '{':
		var obj T
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", nil, err
		}
		return "", &obj, nil
	default:
		return "", nil, fmt.Errorf("expected string or object, got %s", data)
	}
}

// ParseToken parses a JSON vp_token value. Empty input and null yield a nil token.
func ParseToken(data []byte) (Token, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, &DecodeError{Level: LevelToken, Err: err}
	}
	return token, nil
}
