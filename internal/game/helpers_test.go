package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

var errScriptExhausted = errors.New("script exhausted")

// stubParticipant answers from queues; when a queue runs dry it repeats the
// fallback value.
type stubParticipant struct {
	speeches  []string
	choices   []string
	speakFall string
	chooseFn  func(candidates []string) string
	failWith  error

	prompts []string
	feed    []Announcement
}

func (s *stubParticipant) Speak(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.failWith != nil {
		return "", s.failWith
	}
	if len(s.speeches) == 0 {
		return s.speakFall, nil
	}
	out := s.speeches[0]
	s.speeches = s.speeches[1:]
	return out, nil
}

func (s *stubParticipant) Choose(_ context.Context, prompt string, candidates []string, _ bool) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.failWith != nil {
		return "", s.failWith
	}
	if s.chooseFn != nil {
		return s.chooseFn(candidates), nil
	}
	if len(s.choices) == 0 {
		return "", errScriptExhausted
	}
	out := s.choices[0]
	s.choices = s.choices[1:]
	return out, nil
}

func (s *stubParticipant) Receive(a Announcement) {
	s.feed = append(s.feed, a)
}

func (s *stubParticipant) messages() []string {
	out := make([]string, 0, len(s.feed))
	for _, a := range s.feed {
		out = append(out, a.Message)
	}
	return out
}

// recordingSink keeps every announcement it sees.
type recordingSink struct {
	got []Announcement
}

func (r *recordingSink) Emit(a Announcement) error {
	r.got = append(r.got, a)
	return nil
}

func (r *recordingSink) count(style Style) int {
	n := 0
	for _, a := range r.got {
		if a.Style == style {
			n++
		}
	}
	return n
}

// firstRand always picks index 0 and never reorders.
type firstRand struct{}

func (firstRand) IntN(int) int                { return 0 }
func (firstRand) Shuffle(int, func(i, j int)) {}

// reverseRand reverses on Shuffle and picks the last index.
type reverseRand struct{}

func (reverseRand) IntN(n int) int { return n - 1 }
func (reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestTable registers the given participants in order and attaches a
// recording sink.
func newTestTable(names []string, parts map[string]*stubParticipant, opts ...TableOption) (*Table, *recordingSink) {
	sink := &recordingSink{}
	opts = append([]TableOption{WithLogger(quietLogger()), WithRand(firstRand{}), WithSinks(sink)}, opts...)
	t := NewTable(opts...)
	for _, n := range names {
		p, ok := parts[n]
		if !ok {
			p = &stubParticipant{}
			parts[n] = p
		}
		if err := t.Roster.Register(n, p); err != nil {
			panic(err)
		}
	}
	return t, sink
}
