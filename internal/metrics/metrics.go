// Package metrics holds the domain counters for claims, access decisions and grants.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docmarket"

// Recorder owns the domain counters. A nil *Recorder records nothing.
type Recorder struct {
	claimsSubmitted   *prometheus.CounterVec
	claimTransitions  *prometheus.CounterVec
	accessDecisions   *prometheus.CounterVec
	entitlementGrants *prometheus.CounterVec
	publishFailures   *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		claimsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_submitted_total",
			Help:      "Payment claims submitted, by result.",
		}, []string{"result"}),
		claimTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_transitions_total",
			Help:      "Approve and reject attempts, by action and result.",
		}, []string{"action", "result"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Access gate decisions, by outcome.",
		}, []string{"decision"}),
		entitlementGrants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_grants_total",
			Help:      "Entitlements created, by source.",
		}, []string{"source"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Claim events that could not be published, by event type.",
		}, []string{"type"}),
	}

	for _, c := range []prometheus.Collector{
		r.claimsSubmitted,
		r.claimTransitions,
		r.accessDecisions,
		r.entitlementGrants,
		r.publishFailures,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ClaimSubmitted(result string) {
	if r == nil {
		return
	}
	r.claimsSubmitted.WithLabelValues(result).Inc()
}

func (r *Recorder) ClaimTransition(action, result string) {
	if r == nil {
		return
	}
	r.claimTransitions.WithLabelValues(action, result).Inc()
}

func (r *Recorder) AccessDecision(decision string) {
	if r == nil {
		return
	}
	r.accessDecisions.WithLabelValues(decision).Inc()
}

func (r *Recorder) EntitlementGranted(source string) {
	if r == nil {
		return
	}
	r.entitlementGrants.WithLabelValues(source).Inc()
}

func (r *Recorder) PublishFailed(eventType string) {
	if r == nil {
		return
	}
	r.publishFailures.WithLabelValues(eventType).Inc()
}
