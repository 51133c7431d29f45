// Package metrics exposes Prometheus collectors for the order intake service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_orders_total",
		Help: "Placement outcomes by result status and reason.",
	}, []string{"status", "reason"})

	CancelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_cancels_total",
		Help: "Cancellation outcomes by result status.",
	}, []string{"status"})

	AccountCallRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_account_retries_total",
		Help: "Retried account service calls by operation.",
	}, []string{"op"})

	AccountCallFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_account_failures_total",
		Help: "Account service calls failed after exhausting retries.",
	}, []string{"op"})

	Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_compensations_total",
		Help: "Reservation release attempts by kind and outcome.",
	}, []string{"kind", "outcome"})

	OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_intake_outbox_published_total",
		Help: "Outbox events drained to the broker by outcome.",
	}, []string{"outcome"})
)
