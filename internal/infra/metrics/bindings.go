package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		codesIssuedTotal,
		bindingsTotal,
	)
}

var (
	codesIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_codes_issued_total",
			Help: "Activation codes issued, by tier (free/privileged).",
		},
		[]string{"tier"},
	)

	bindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_bindings_total",
			Help: "Group binding transitions (registered/reconnected/disconnected).",
		},
		[]string{"transition"},
	)
)

func IncCodeIssued(tier string) {
	codesIssuedTotal.WithLabelValues(norm(tier)).Inc()
}

func IncBinding(transition string) {
	bindingsTotal.WithLabelValues(norm(transition)).Inc()
}
