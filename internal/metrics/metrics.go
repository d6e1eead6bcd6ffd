// Package metrics records vcionboard activity for Prometheus.
package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by the metrics providers.
var Logger = log.New("metrics-provider")

// Constants used by the metrics providers.
const (
	// Namespace of all vcionboard metrics.
	Namespace = "vcionboard"

	// VPToken normalizer operations.
	VPToken                = "vptoken"
	VPTokenExtractionsName = "extractions_total"

	// Credential offer operations.
	Credential           = "credential"
	CredentialOffersName = "offers_total"
	CredentialOfferTime  = "offer_seconds"

	// OutcomeLabel is the label carrying the operation result.
	OutcomeLabel = "outcome"
)

// Outcomes recorded by the counters.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeDecodeError = "decode_error"
	OutcomeConfigError = "config_error"
	OutcomeError       = "error"
)

// Metrics is the set of metrics recorded by vcionboard.
type Metrics interface {
	VPTokenExtraction(outcome string)
	CredentialOffer(outcome string, value time.Duration)
}
