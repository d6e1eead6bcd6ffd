package vptoken

//go:generate mockgen -destination decoder_mocks_test.go -self_package github.com/sirosfoundation/vcionboard/pkg/vptoken -package vptoken . Decoder

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3/jwt"
)

// Decoder returns the payload of a compact-serialized token
type Decoder interface {
	Decode(ctx context.Context, compact string) ([]byte, error)
}

// JOSEDecoder decodes compact JWS tokens without verifying their signature.
// Signature verification happens before the token reaches this service.
type JOSEDecoder struct{}

// Decode parses compact and returns its JSON payload. An SD-JWT disclosure
// suffix (everything from the first "~") is dropped. A token whose header
// does not parse still yields its base64url payload segment.
func (JOSEDecoder) Decode(_ context.Context, compact string) ([]byte, error) {
	compact = strings.TrimSpace(compact)
	if i := strings.IndexByte(compact, '~'); i >= 0 {
		compact = compact[:i]
	}

	token, err := jwt.ParseSigned(compact)
	if err != nil {
		// go-jose needs a JSON header; only the payload segment matters here
		if payload, ok := payloadSegment(compact); ok {
			return payload, nil
		}

		return nil, fmt.Errorf("parse compact JWS: %w", err)
	}

	var payload json.RawMessage
	if err := token.UnsafeClaimsWithoutVerification(&payload); err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return payload, nil
}

func payloadSegment(compact string) ([]byte, bool) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, false
	}

	return payload, true
}
