package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_commands_total",
			Help: "Total commands dispatched through the user store",
		},
		[]string{"command"},
	)
	commandFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_command_failures_total",
			Help: "Commands rejected by the user store",
		},
		[]string{"command"},
	)
	penaltyActivations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "penalty_box_activations_total",
			Help: "Penalty box activations across all students",
		},
	)
	persistenceFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_persistence_failures_total",
			Help: "Write-through saves that failed (state kept in memory)",
		},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal)
	prometheus.MustRegister(commandFailures)
	prometheus.MustRegister(penaltyActivations)
	prometheus.MustRegister(persistenceFailures)
}
