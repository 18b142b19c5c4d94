package webgl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glremote",
		Subsystem: "context",
		Name:      "commands_sent_total",
		Help:      "Commands sent to the owner by type.",
	}, []string{"type"})
	deferredDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "glremote",
		Subsystem: "context",
		Name:      "deferred_buffer_deletes_total",
		Help:      "Buffer deletions postponed until the last vertex array let the buffer go.",
	})
	contextsLost = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "glremote",
		Subsystem: "context",
		Name:      "lost_total",
		Help:      "Contexts lost because of a broken owner link.",
	})
)
