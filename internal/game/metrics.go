package game

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_steps_total",
			Help: "Steps handled by the phase engine",
		},
		[]string{"phase", "outcome"},
	)
	announcementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_announcements_total",
			Help: "Announcements emitted by scope",
		},
		[]string{"scope"},
	)
	sinkErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_sink_errors_total",
			Help: "Announcement sink failures swallowed by the broadcaster",
		},
	)
	discussionRoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_discussion_rounds_total",
			Help: "Discussion rounds started",
		},
	)
	votesCastTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_votes_cast_total",
			Help: "Valid votes counted",
		},
	)
	voteTiesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_vote_ties_total",
			Help: "Voting rounds that ended without a unique leader",
		},
	)
	voteFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "game_vote_fallbacks_total",
			Help: "Votes resolved by random draw after retries ran out",
		},
	)
)

func init() {
	prometheus.MustRegister(stepsTotal)
	prometheus.MustRegister(announcementsTotal)
	prometheus.MustRegister(sinkErrorsTotal)
	prometheus.MustRegister(discussionRoundsTotal)
	prometheus.MustRegister(votesCastTotal)
	prometheus.MustRegister(voteTiesTotal)
	prometheus.MustRegister(voteFallbacksTotal)
}
