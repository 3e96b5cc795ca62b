package participant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Sigma-Eleven/model/internal/game"
)

// DefaultReadyMarker is the prompt fragment that makes a robot answer with
// the ready sentinel instead of a speech.
const DefaultReadyMarker = "ready"

// Robot is an automated seat. It talks in canned lines and picks uniformly
// among the candidates other than itself.
type Robot struct {
	Name        string
	Lines       []string
	ReadyMarker string

	mu   sync.Mutex
	rng  game.Rand
	next int
	seen int
}

func NewRobot(name string, rng game.Rand) *Robot {
	if rng == nil {
		rng = game.NewRand(0)
	}
	return &Robot{Name: name, ReadyMarker: DefaultReadyMarker, rng: rng}
}

func (r *Robot) Speak(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.ReadyMarker != "" && strings.Contains(strings.ToLower(prompt), strings.ToLower(r.ReadyMarker)) {
		return game.ReadySentinel, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Lines) == 0 {
		return fmt.Sprintf("I am %s, and I will find out who is lying.", r.Name), nil
	}
	line := r.Lines[r.next%len(r.Lines)]
	r.next++
	return line, nil
}

func (r *Robot) Choose(ctx context.Context, prompt string, candidates []string, allowSkip bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != r.Name {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		if len(candidates) == 0 {
			if allowSkip {
				return game.Skip, nil
			}
			return "", nil
		}
		pool = candidates
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.IntN(len(pool))], nil
}

func (r *Robot) Receive(game.Announcement) {
	r.mu.Lock()
	r.seen++
	r.mu.Unlock()
}

// Seen returns how many announcements reached the robot.
func (r *Robot) Seen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen
}
