package game

import (
	"log/slog"
)

// Table is what the protocols and step actions work with: the roster, the
// broadcaster and the shared random source.
type Table struct {
	Roster *Roster
	Board  *Broadcaster

	rng Rand
	log *slog.Logger
}

type TableOption func(*Table)

// WithRand injects the random source. Tests use it for reproducible shuffles
// and tie fallbacks.
func WithRand(rng Rand) TableOption {
	return func(t *Table) { t.rng = rng }
}

func WithLogger(log *slog.Logger) TableOption {
	return func(t *Table) { t.log = log }
}

func WithSinks(sinks ...Sink) TableOption {
	return func(t *Table) {
		for _, s := range sinks {
			t.Board.AddSink(s)
		}
	}
}

func NewTable(opts ...TableOption) *Table {
	roster := NewRoster()
	t := &Table{
		Roster: roster,
		log:    slog.Default(),
	}
	t.Board = NewBroadcaster(roster, nil)
	for _, opt := range opts {
		opt(t)
	}
	t.Board.log = t.log
	if t.rng == nil {
		t.rng = NewRand(0)
	}
	return t
}

// Announce is shorthand for t.Board.Announce.
func (t *Table) Announce(message string, visibleTo []string, style Style) {
	t.Board.Announce(message, visibleTo, style)
}

func (t *Table) Rand() Rand {
	return t.rng
}

func (t *Table) Logger() *slog.Logger {
	return t.log
}
