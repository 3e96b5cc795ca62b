// Package elimination is a two-faction hidden-role game built on the phase
// engine: infiltrators pick a victim each night, everyone votes someone out
// each day.
package elimination

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Sigma-Eleven/model/internal/game"
)

const Name = "elimination"

const (
	Citizen     game.Role = "citizen"
	Infiltrator game.Role = "infiltrator"
)

const (
	WinnerCitizens     = "citizens"
	WinnerInfiltrators = "infiltrators"
)

const MinPlayers = 3

var (
	ErrTooFewPlayers = errors.New("not enough players")
	ErrRoleMix       = errors.New("infiltrators must be fewer than citizens")
)

type Settings struct {
	// Infiltrators defaults to a quarter of the table, at least one.
	Infiltrators int `json:"infiltrators,omitempty"`
	// NightRounds bounds the infiltrators' private discussion.
	NightRounds int `json:"night_rounds,omitempty"`
	// DayRounds bounds the public discussion.
	DayRounds int `json:"day_rounds,omitempty"`
	// VoteRetries is how many tied night votes are repeated before a random
	// pick among the tied targets.
	VoteRetries int `json:"vote_retries,omitempty"`
	// ShuffleSpeakers draws a new speaking order every day round.
	ShuffleSpeakers bool `json:"shuffle_speakers,omitempty"`
}

func (s Settings) withDefaults(players int) Settings {
	if s.Infiltrators <= 0 {
		s.Infiltrators = max(1, players/4)
	}
	if s.NightRounds <= 0 {
		s.NightRounds = 3
	}
	if s.DayRounds <= 0 {
		s.DayRounds = 1
	}
	if s.VoteRetries <= 0 {
		s.VoteRetries = game.DefaultMaxRetries
	}
	return s
}

// Validate checks that a table of the given size can be dealt.
func (s Settings) Validate(players int) error {
	if players < MinPlayers {
		return fmt.Errorf("%w: %d < %d", ErrTooFewPlayers, players, MinPlayers)
	}
	s = s.withDefaults(players)
	if s.Infiltrators*2 >= players {
		return fmt.Errorf("%w: %d of %d", ErrRoleMix, s.Infiltrators, players)
	}
	return nil
}

// State is the per-game state the steps share. The engine goroutine writes
// it; Snapshot may be called from anywhere.
type State struct {
	mu        sync.Mutex
	day       int
	marked    string
	winner    string
	announced bool
}

func (s *State) Snapshot() (day int, winner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day, s.winner
}

// Game is a set-up elimination game ready to Run.
type Game struct {
	*game.Engine[State]
	Settings Settings

	stopOnce sync.Once
}

// Setup deals the roles to every registered player, tells each one their
// role privately and builds the engine.
func Setup(t *game.Table, s Settings, opts ...game.EngineOption[State]) (*Game, error) {
	players := t.Roster.Len()
	if err := s.Validate(players); err != nil {
		return nil, err
	}
	s = s.withDefaults(players)
	names := t.Roster.Names()

	deck := make([]game.Role, len(names))
	for i := range deck {
		if i < s.Infiltrators {
			deck[i] = Infiltrator
		} else {
			deck[i] = Citizen
		}
	}
	t.Rand().Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for i, name := range names {
		if err := t.Roster.AssignRole(name, deck[i]); err != nil {
			return nil, err
		}
	}

	t.Announce(lines.Format("roles", fmt.Sprintf("%s %d, %s %d", Infiltrator, s.Infiltrators, Citizen, len(names)-s.Infiltrators)), nil, game.StyleNarration)
	t.Announce(lines.Format("players", strings.Join(names, ", ")), nil, game.StyleNarration)

	team := t.Roster.AliveNames(Infiltrator)
	for _, name := range names {
		role, _ := t.Roster.RoleOf(name)
		t.Announce(lines.Format("your_role", role), []string{name}, game.StyleNarration)
		if !role.Is(Infiltrator) {
			continue
		}
		if mates := without(team, name); len(mates) > 0 {
			t.Announce(lines.Format("teammates", strings.Join(mates, ", ")), []string{name}, game.StyleNarration)
		} else {
			t.Announce(lines.Format("alone"), []string{name}, game.StyleNarration)
		}
	}
	t.Announce(lines.Format("begin"), nil, game.StyleNarration)

	g := &Game{Settings: s}
	state := &State{}
	e, err := game.NewEngine(t, state, g.phases(), func() bool { return g.over(t, state) }, opts...)
	if err != nil {
		return nil, err
	}
	g.Engine = e
	return g, nil
}

// Stop halts the game before its next step and tells everyone. Finished
// games are left alone.
func (g *Game) Stop() {
	if st := g.Status(); st == game.StatusGameOver || st == game.StatusStopped {
		return
	}
	g.stopOnce.Do(func() {
		g.Engine.Stop()
		g.Announce(lines.Format("stopped"), nil, game.StyleAlert)
	})
}

// Day returns the current day number.
func (g *Game) Day() int {
	day, _ := g.State.Snapshot()
	return day
}

// Winner returns the winning faction once the game is over.
func (g *Game) Winner() string {
	_, w := g.State.Snapshot()
	return w
}

// over reports whether a faction has won and announces it the first time.
func (g *Game) over(t *game.Table, s *State) bool {
	infiltrators := len(t.Roster.AliveNames(Infiltrator))
	citizens := len(t.Roster.AliveNames(Citizen))

	var winner, key string
	switch {
	case infiltrators == 0:
		winner, key = WinnerCitizens, "citizens_win"
	case infiltrators >= citizens:
		winner, key = WinnerInfiltrators, "infiltrators_win"
	default:
		return false
	}

	s.mu.Lock()
	first := !s.announced
	s.announced = true
	s.winner = winner
	s.mu.Unlock()

	if first {
		t.Announce(lines.Format(key), nil, game.StyleAlert)
	}
	return true
}

func without(names []string, name string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
