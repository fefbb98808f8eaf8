package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SyncRequests.
const (
	OutcomeSuccess            = "success"
	OutcomeUnexpected         = "unexpected"
	OutcomeMissingCredentials = "missing_credentials"
	OutcomeInvalid            = "invalid"
)

// AddressMetrics holds Prometheus metrics for address management.
type AddressMetrics struct {
	// Client side: synchronizer and checkout form
	SyncRequests        *prometheus.CounterVec
	SyncLatency         *prometheus.HistogramVec
	ValidationFailures  *prometheus.CounterVec
	SubmissionsRejected *prometheus.CounterVec

	// Service side: reference address service
	ServiceRequests *prometheus.CounterVec
	ServiceLatency  *prometheus.HistogramVec
	StoredAddresses prometheus.Gauge
}

// NewAddressMetrics registers the address metrics with reg.
// A nil reg uses the default registerer.
func NewAddressMetrics(namespace string, reg prometheus.Registerer) *AddressMetrics {
	if namespace == "" {
		namespace = "addressbook"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &AddressMetrics{
		SyncRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "requests_total",
				Help:      "Address synchronizer calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		SyncLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "request_duration_seconds",
				Help:      "Round-trip time of address service calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "form",
				Name:      "validation_failures_total",
				Help:      "Form submissions rejected by field validation",
			},
			[]string{"field"},
		),
		SubmissionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "form",
				Name:      "submissions_rejected_total",
				Help:      "Form submissions rejected before validation",
			},
			[]string{"reason"},
		),
		ServiceRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "service",
				Name:      "requests_total",
				Help:      "Reference address service requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		ServiceLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "service",
				Name:      "request_duration_seconds",
				Help:      "Reference address service handler latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoredAddresses: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "service",
				Name:      "stored_addresses",
				Help:      "Addresses held by the reference service across all customers",
			},
		),
	}
}
