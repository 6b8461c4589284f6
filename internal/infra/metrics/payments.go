package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentChecksTotal,
		paymentsConfirmedUSDT,
		paymentsUnappliedTotal,
	)
}

var (
	paymentChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_checks_total",
			Help: "Payment checks by outcome (paid/unpaid/limit_reached/error).",
		},
		[]string{"outcome"},
	)

	paymentsConfirmedUSDT = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_confirmed_usdt_total",
			Help: "Total confirmed deposit value applied to extensions, in USDT.",
		},
	)

	// Confirmed money that could not be applied because the binding had no
	// renewal capacity left. Anything above zero needs manual resolution.
	paymentsUnappliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_unapplied_total",
			Help: "Confirmed payments left unapplied due to the extension limit.",
		},
	)
)

func IncPaymentCheck(outcome string) {
	paymentChecksTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddConfirmedUSDT(amount float64) {
	paymentsConfirmedUSDT.Add(amount)
}

func IncUnappliedPayment() {
	paymentsUnappliedTotal.Inc()
}
