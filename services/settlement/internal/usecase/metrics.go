package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotto_transfers_total",
			Help: "Committed wallet transfers",
		},
		[]string{"direction"},
	)

	transferVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotto_transfer_volume",
			Help: "Sum of committed transfer amounts",
		},
		[]string{"direction"},
	)

	ticketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotto_tickets_total",
			Help: "Ticket lifecycle events",
		},
		[]string{"event"},
	)

	approvalVotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotto_approval_votes_total",
			Help: "Votes cast on approval requests",
		},
		[]string{"decision"},
	)

	prizeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotto_prize_runs_total",
			Help: "Prize engine invocations",
		},
		[]string{"outcome"},
	)
)
