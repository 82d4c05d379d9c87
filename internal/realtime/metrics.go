package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_relayed_total",
			Help: "Inbound relay events handled, by event name.",
		},
		[]string{"event"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_dropped_total",
			Help: "Inbound relay events dropped without fan-out, by reason.",
		},
		[]string{"reason"},
	)
)
