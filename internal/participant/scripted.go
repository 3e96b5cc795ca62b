package participant

import (
	"context"
	"errors"
	"sync"

	"github.com/Sigma-Eleven/model/internal/game"
)

var ErrScriptExhausted = errors.New("script exhausted")

// Scripted answers from fixed queues. Once the speech queue is empty it
// passes; once the choice queue is empty it skips when allowed and fails
// otherwise. Every received announcement is kept.
type Scripted struct {
	mu       sync.Mutex
	speeches []string
	choices  []string
	feed     []game.Announcement
	prompts  []string
}

func NewScripted(speeches, choices []string) *Scripted {
	return &Scripted{
		speeches: append([]string(nil), speeches...),
		choices:  append([]string(nil), choices...),
	}
}

func (s *Scripted) Speak(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.speeches) == 0 {
		return "", nil
	}
	out := s.speeches[0]
	s.speeches = s.speeches[1:]
	return out, nil
}

func (s *Scripted) Choose(ctx context.Context, prompt string, candidates []string, allowSkip bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.choices) == 0 {
		if allowSkip {
			return game.Skip, nil
		}
		return "", ErrScriptExhausted
	}
	out := s.choices[0]
	s.choices = s.choices[1:]
	return out, nil
}

func (s *Scripted) Receive(a game.Announcement) {
	s.mu.Lock()
	s.feed = append(s.feed, a)
	s.mu.Unlock()
}

// Feed returns the announcements received so far.
func (s *Scripted) Feed() []game.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Announcement(nil), s.feed...)
}

// Messages returns the text of the received announcements.
func (s *Scripted) Messages() []string {
	feed := s.Feed()
	out := make([]string, len(feed))
	for i, a := range feed {
		out[i] = a.Message
	}
	return out
}

// Prompts returns every prompt the seat was asked.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
