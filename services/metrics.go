package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Settlement counters, labelled by the surface that triggered the balance
// movement (goldapi, suitpay, nxgate, gatebox, withdrawal, job).
var (
	SettlementsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luxbet_settlements_applied_total",
		Help: "Balance movements committed, by source.",
	}, []string{"source"})

	SettlementsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luxbet_settlements_rejected_total",
		Help: "Balance movements refused, by source and reason.",
	}, []string{"source", "reason"})

	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luxbet_webhooks_received_total",
		Help: "Payment gateway webhooks received, by gateway and outcome.",
	}, []string{"gateway", "outcome"})
)
