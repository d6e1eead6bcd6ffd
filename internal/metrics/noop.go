package metrics

import "time"

// Noop discards all metrics.
type Noop struct{}

// VPTokenExtraction is not implemented.
func (Noop) VPTokenExtraction(string) {}

// CredentialOffer is not implemented.
func (Noop) CredentialOffer(string, time.Duration) {}
