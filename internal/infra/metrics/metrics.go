package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики жизненного цикла заявок. Отдаются через /metrics.
var (
	RequestsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_requests_submitted_total",
		Help: "Number of access requests created.",
	})
	RequestsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_requests_approved_total",
		Help: "Number of access requests approved.",
	})
	RequestsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_requests_rejected_total",
		Help: "Number of access requests rejected.",
	})
	InvitesRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_invites_revoked_total",
		Help: "Number of invite links marked revoked after a join.",
	})
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_delivery_failures_total",
		Help: "Failed notifications or invite issuance after a decision.",
	})
	RevokeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "access_revoke_failures_total",
		Help: "Failed invite revocations at the channel after a join.",
	})
)
