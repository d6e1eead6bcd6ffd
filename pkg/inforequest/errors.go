package inforequest

import "errors"

var (
	// ErrReadOnlyField is returned when a wallet-sourced field is edited.
	ErrReadOnlyField = errors.New("inforequest: field is read-only")

	// ErrUnknownField is returned when a key is not part of the form.
	ErrUnknownField = errors.New("inforequest: unknown field")

	// ErrIncomplete is returned when submitting with required fields still empty.
	ErrIncomplete = errors.New("inforequest: required fields are missing")

	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("inforequest: session not found")
)
