package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		redemptionsTotal,
		codesCreatedTotal,
		invitesIssuedTotal,
		revocationsTotal,
	)
}

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Redemption attempts by outcome.",
		},
		[]string{"result"}, // 'granted', 'already_subscribed', 'invalid_code', 'exhausted', 'error'
	)

	codesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codes_created_total",
			Help: "Access codes created, by creation mode.",
		},
		[]string{"mode"}, // 'explicit', 'generated'
	)

	invitesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invites_issued_total",
			Help: "Single-use invite links successfully delivered.",
		},
	)

	revocationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revocations_total",
			Help: "Admin revocations processed.",
		},
	)
)

func IncRedemption(result string) {
	redemptionsTotal.WithLabelValues(result).Inc()
}

func IncCodeCreated(mode string) {
	codesCreatedTotal.WithLabelValues(mode).Inc()
}

func IncInviteIssued() {
	invitesIssuedTotal.Inc()
}

func IncRevocation() {
	revocationsTotal.Inc()
}
