package extension

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var extensionsEnabled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "glremote",
	Subsystem: "context",
	Name:      "extensions_enabled_total",
	Help:      "Extensions instantiated by contexts.",
}, []string{"name"})
