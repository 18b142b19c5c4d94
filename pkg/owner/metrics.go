package owner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glremote",
		Subsystem: "owner",
		Name:      "commands_total",
		Help:      "Commands executed by the owner by type.",
	}, []string{"type"})
	commandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glremote",
		Subsystem: "owner",
		Name:      "command_errors_total",
		Help:      "Commands the driver failed to execute by type.",
	}, []string{"type"})
	liveResources = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "glremote",
		Subsystem: "owner",
		Name:      "resources",
		Help:      "Live driver resources by kind.",
	}, []string{"kind"})
	connections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "glremote",
		Subsystem: "owner",
		Name:      "connections",
		Help:      "Connected contexts.",
	})
)
