package participant

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Sigma-Eleven/model/internal/game"
)

func TestRobotNeverPicksItselfWhenOthersRemain(t *testing.T) {
	r := NewRobot("A", rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 100; i++ {
		got, err := r.Choose(context.Background(), "vote", []string{"A", "B", "C"}, false)
		if err != nil {
			t.Fatalf("choose: %v", err)
		}
		if got != "B" && got != "C" {
			t.Fatalf("robot chose %q", got)
		}
	}
}

func TestRobotChoiceEdgeCases(t *testing.T) {
	r := NewRobot("A", rand.New(rand.NewPCG(1, 2)))
	cases := []struct {
		candidates []string
		allowSkip  bool
		want       string
	}{
		{[]string{"A"}, false, "A"},
		{nil, true, game.Skip},
		{nil, false, ""},
	}
	for _, tc := range cases {
		got, err := r.Choose(context.Background(), "pick", tc.candidates, tc.allowSkip)
		if err != nil || got != tc.want {
			t.Fatalf("Choose(%v, %v) = %q, %v; want %q", tc.candidates, tc.allowSkip, got, err, tc.want)
		}
	}
}

func TestRobotSpeech(t *testing.T) {
	r := NewRobot("A", nil)
	r.Lines = []string{"one", "two"}

	if got, _ := r.Speak(context.Background(), "Say READY when done"); got != game.ReadySentinel {
		t.Fatalf("ready prompt answered %q", got)
	}
	var said []string
	for i := 0; i < 3; i++ {
		s, _ := r.Speak(context.Background(), "your turn")
		said = append(said, s)
	}
	if said[0] != "one" || said[1] != "two" || said[2] != "one" {
		t.Fatalf("lines = %v", said)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Speak(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestScriptedQueues(t *testing.T) {
	s := NewScripted([]string{"hi"}, []string{"B"})
	ctx := context.Background()

	if got, _ := s.Speak(ctx, "p1"); got != "hi" {
		t.Fatalf("speak = %q", got)
	}
	if got, _ := s.Speak(ctx, "p2"); got != "" {
		t.Fatalf("exhausted speak = %q", got)
	}
	if got, _ := s.Choose(ctx, "p3", []string{"A", "B"}, false); got != "B" {
		t.Fatalf("choose = %q", got)
	}
	if got, _ := s.Choose(ctx, "p4", []string{"A", "B"}, true); got != game.Skip {
		t.Fatalf("exhausted choose with skip = %q", got)
	}
	if _, err := s.Choose(ctx, "p5", []string{"A", "B"}, false); !errors.Is(err, ErrScriptExhausted) {
		t.Fatalf("err = %v", err)
	}
	if n := len(s.Prompts()); n != 5 {
		t.Fatalf("prompts = %d", n)
	}

	s.Receive(game.Announcement{Message: "night falls"})
	if m := s.Messages(); len(m) != 1 || m[0] != "night falls" {
		t.Fatalf("messages = %v", m)
	}
}
