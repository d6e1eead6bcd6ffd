// Package logfields defines the structured log fields shared across vcionboard packages.
package logfields

import (
	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldCandidates     = "candidates"
	FieldClaimKeys      = "claimKeys"
	FieldCommand        = "command"
	FieldCredentialType = "credentialType"
	FieldField          = "field"
	FieldFormFile       = "formFile"
	FieldListen         = "listen"
	FieldPopulated      = "populated"
	FieldPresentations  = "presentations"
	FieldSessionID      = "sessionID"
	FieldUserLogLevel   = "userLogLevel"
)

// WithCandidates sets the Candidates field.
func WithCandidates(count int) zap.Field {
	return zap.Int(FieldCandidates, count)
}

// WithClaimKeys sets the ClaimKeys field.
func WithClaimKeys(keys []string) zap.Field {
	return zap.Strings(FieldClaimKeys, keys)
}

// WithCommand sets the Command field.
func WithCommand(command string) zap.Field {
	return zap.String(FieldCommand, command)
}

// WithCredentialType sets the CredentialType field.
func WithCredentialType(credentialType string) zap.Field {
	return zap.String(FieldCredentialType, credentialType)
}

// WithField sets the Field field.
func WithField(key string) zap.Field {
	return zap.String(FieldField, key)
}

// WithFormFile sets the FormFile field.
func WithFormFile(path string) zap.Field {
	return zap.String(FieldFormFile, path)
}

// WithListen sets the Listen field.
func WithListen(addr string) zap.Field {
	return zap.String(FieldListen, addr)
}

// WithPopulated sets the Populated field.
func WithPopulated(count int) zap.Field {
	return zap.Int(FieldPopulated, count)
}

// WithPresentations sets the Presentations field.
func WithPresentations(count int) zap.Field {
	return zap.Int(FieldPresentations, count)
}

// WithSessionID sets the SessionID field.
func WithSessionID(id string) zap.Field {
	return zap.String(FieldSessionID, id)
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(level string) zap.Field {
	return zap.String(FieldUserLogLevel, level)
}
