package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	createOnce sync.Once //nolint:gochecknoglobals
	instance   Metrics   //nolint:gochecknoglobals
)

// GetMetrics returns the process-wide Prometheus metrics, registering them on first use.
func GetMetrics() Metrics {
	createOnce.Do(func() {
		instance = NewPromMetrics(prometheus.DefaultRegisterer)
	})

	return instance
}

// PromMetrics manages the Prometheus collectors of vcionboard.
type PromMetrics struct {
	extractions *prometheus.CounterVec
	offers      *prometheus.CounterVec
	offerTime   prometheus.Histogram
}

// NewPromMetrics creates the collectors and registers them with registerer.
func NewPromMetrics(registerer prometheus.Registerer) *PromMetrics {
	pm := &PromMetrics{
		extractions: newCounterVec(VPToken, VPTokenExtractionsName,
			"The number of vp_token extractions by outcome.", OutcomeLabel),
		offers: newCounterVec(Credential, CredentialOffersName,
			"The number of credential offer requests by outcome.", OutcomeLabel),
		offerTime: newHistogram(Credential, CredentialOfferTime,
			"The time (in seconds) it takes the issuance agent to create a credential offer."),
	}

	registerer.MustRegister(pm.extractions, pm.offers, pm.offerTime)

	return pm
}

// VPTokenExtraction counts a vp_token extraction.
func (pm *PromMetrics) VPTokenExtraction(outcome string) {
	pm.extractions.WithLabelValues(outcome).Inc()
}

// CredentialOffer counts a credential offer request and records its duration.
func (pm *PromMetrics) CredentialOffer(outcome string, value time.Duration) {
	pm.offers.WithLabelValues(outcome).Inc()
	pm.offerTime.Observe(value.Seconds())

	Logger.Debug("credential offer time", zap.String(OutcomeLabel, outcome), zap.Duration("duration", value))
}

// Handler returns the /metrics endpoint serving the default gatherer.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	)
}

func newCounterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogram(subsystem, name, help string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}
