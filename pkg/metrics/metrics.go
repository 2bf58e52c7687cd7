package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "timeout", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by operation class."},
		[]string{"class"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "timeout", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by operation class."},
		[]string{"class"},
	)
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "timeout", Name: "auth_rejected_total", Help: "Number of rejected calls by rejection reason."},
		[]string{"reason"},
	)
	SecurityEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "timeout", Name: "security_events_total", Help: "Number of emitted security events by kind."},
		[]string{"kind"},
	)
	AuditEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "timeout", Name: "audit_events_dropped_total", Help: "Number of security events dropped by the sink flood guard."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthRejected)
	reg.MustRegister(SecurityEvents)
	reg.MustRegister(AuditEventsDropped)
}
