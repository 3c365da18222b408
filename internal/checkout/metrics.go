package checkout

import "github.com/prometheus/client_golang/prometheus"

var (
	chargesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_charges_total",
		Help: "Completed charges by payment method.",
	}, []string{"method"})

	chargeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_charge_failures_total",
		Help: "Rejected or failed charges by reason.",
	}, []string{"reason"})

	deliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_receipt_deliveries_total",
		Help: "Receipt delivery attempts by final outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(chargesTotal, chargeFailures, deliveriesTotal)
}
