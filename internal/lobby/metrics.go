package lobby

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lobby_active_games",
			Help: "Games currently running",
		},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_games_finished_total",
			Help: "Finished games by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(activeGames)
	prometheus.MustRegister(gamesFinished)
}
