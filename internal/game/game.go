package game

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Skip is the value a participant returns from Choose to abstain when
// skipping is allowed.
const Skip = "skip"

// ReadySentinel ends a participant's turn-taking in a discussion that has the
// ready check enabled.
const ReadySentinel = "0"

var (
	ErrEmptyName       = errors.New("player name is empty")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrRoleAssigned    = errors.New("role already assigned")
)

// Participant is the behaviour side of a seat: a human console, a network
// client or an automated agent. Speak and Choose block until the participant
// answers.
type Participant interface {
	// Speak returns an utterance; "" means pass.
	Speak(ctx context.Context, prompt string) (string, error)
	// Choose returns one of candidates, or Skip when allowSkip is set.
	Choose(ctx context.Context, prompt string, candidates []string, allowSkip bool) (string, error)
	// Receive delivers an announcement visible to this participant.
	Receive(a Announcement)
}

// Sink is the privileged, omniscient receiver of every announcement
// (transcript, game master console, spectator feed).
type Sink interface {
	Emit(a Announcement) error
}

// Role is a variant-defined role name.
type Role string

// NoRole is the role of a player that has not been assigned one yet.
const NoRole Role = ""

// Key is the comparison key of the role, so "Wolf" and "wolf" match.
func (r Role) Key() string {
	return strings.ToLower(strings.TrimSpace(string(r)))
}

func (r Role) String() string {
	return string(r)
}

// Is reports whether r and other name the same role.
func (r Role) Is(other Role) bool {
	return r.Key() == other.Key()
}

// Style tags how an announcement should be rendered.
type Style string

const (
	StyleSpeech    Style = "speech"
	StyleNarration Style = "narration"
	StyleAlert     Style = "alert"
)

// Prefix returns the console prefix for the style.
func (s Style) Prefix() string {
	switch s {
	case StyleSpeech:
		return "#:"
	case StyleAlert:
		return "#!"
	default:
		return "#@"
	}
}

// Announcement is one message emitted by the Broadcaster.
type Announcement struct {
	Seq       int64     `json:"seq"`
	Message   string    `json:"message"`
	VisibleTo []string  `json:"visible_to,omitempty"`
	Style     Style     `json:"style"`
	At        time.Time `json:"at"`
}

// Public reports whether every participant can see the announcement.
func (a Announcement) Public() bool {
	return len(a.VisibleTo) == 0
}

// VisibleFor reports whether the named participant can see the announcement.
func (a Announcement) VisibleFor(name string) bool {
	if a.Public() {
		return true
	}
	for _, n := range a.VisibleTo {
		if n == name {
			return true
		}
	}
	return false
}
