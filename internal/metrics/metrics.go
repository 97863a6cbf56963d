package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the order lifecycle core.
var (
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Committed order status transitions, by target status",
		},
		[]string{"to"},
	)

	TransitionsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_rejected_total",
			Help: "Rejected transition requests, by reason",
		},
		[]string{"reason"},
	)

	TransitionConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_transition_conflicts_total",
			Help: "Transition requests that lost the version race after retries",
		},
	)

	InvoicesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_created_total",
			Help: "Invoices auto-created for delivered orders",
		},
	)

	InvoiceFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoice_failures_total",
			Help: "Invoice creation attempts that failed (retried by the billing worker)",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TransitionsTotal,
		TransitionsRejectedTotal,
		TransitionConflictsTotal,
		InvoicesCreatedTotal,
		InvoiceFailuresTotal,
	)
}
