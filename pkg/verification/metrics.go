package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsOpened is the total number of verification tickets opened.
	TicketsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_tickets_opened_total",
			Help: "Total number of verification tickets opened",
		},
		[]string{"method"},
	)

	// TicketsExpired is the total number of tickets closed by the inactivity timeout.
	TicketsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verification_tickets_expired_total",
			Help: "Total number of verification tickets closed for inactivity",
		},
	)

	// Submissions is the total number of submissions sent to staff.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_submissions_total",
			Help: "Total number of submissions sent to staff",
		},
		[]string{"method"},
	)

	// Decisions is the total number of staff decisions.
	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_decisions_total",
			Help: "Total number of staff decisions",
		},
		[]string{"outcome"},
	)
)
