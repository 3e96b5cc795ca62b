package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_connections",
			Help: "Remote seats with an attached socket",
		},
	)
	turnTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_turn_timeouts_total",
			Help: "Remote turns played by the fallback after a timeout",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections)
	prometheus.MustRegister(turnTimeouts)
}
