package vptoken

import (
	"errors"
	"fmt"
)

// Levels of the vp_token structure a DecodeError can originate from
const (
	LevelToken        = "token"
	LevelPresentation = "presentation"
	LevelCredential   = "credential"
)

// ErrMissingClaim is returned when a decoded JWT lacks its vp or vc claim
var ErrMissingClaim = errors.New("missing claim")

// DecodeError reports a compact-serialized token (or a structure within it)
// that could not be decoded or parsed.
type DecodeError struct {
	Level string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vptoken: decode %s: %v", e.Level, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
