package game

import (
	"context"
	"fmt"
	"strings"
)

// Discussion configures one RunDiscussion call.
type Discussion struct {
	Participants []string
	Prompts      Prompts
	MaxRounds    int
	// ReadyCheck lets a speaker answer ReadySentinel to leave the discussion.
	ReadyCheck bool
	// Shuffle draws a fresh speaking order every round.
	Shuffle    bool
	Visibility []string
	// SpeechStyle defaults to StyleSpeech.
	SpeechStyle Style
}

type DiscussionResult struct {
	Rounds   int
	Ready    []string
	Speeches int
	TimedOut bool
}

// RunDiscussion runs at most d.MaxRounds rounds of turn-taking. Speakers that
// signalled readiness are skipped in later rounds; the discussion ends early
// once everyone is ready.
func (t *Table) RunDiscussion(ctx context.Context, d Discussion) (DiscussionResult, error) {
	var res DiscussionResult

	speechStyle := d.SpeechStyle
	if speechStyle == "" {
		speechStyle = StyleSpeech
	}

	participants := make([]string, 0, len(d.Participants))
	for _, name := range d.Participants {
		if _, ok := t.Roster.Participant(name); !ok {
			t.log.Warn("discussion: dropping unknown participant", "name", name)
			continue
		}
		participants = append(participants, name)
	}

	if d.Prompts.Has(PromptStart) {
		t.Announce(d.Prompts.Format(PromptStart), d.Visibility, StyleNarration)
	}
	if d.Prompts.Has(PromptAlivePlayers) {
		t.Announce(d.Prompts.Format(PromptAlivePlayers, strings.Join(participants, ", ")), d.Visibility, StyleNarration)
	}

	ready := make(map[string]struct{}, len(participants))

	for len(ready) < len(participants) && res.Rounds < d.MaxRounds {
		res.Rounds++
		discussionRoundsTotal.Inc()

		order := participants
		if d.Shuffle {
			order = shuffled(t.rng, participants)
		}

		for _, name := range order {
			if _, done := ready[name]; done {
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}

			p, _ := t.Roster.Participant(name)
			said, err := p.Speak(ctx, d.Prompts.Format(PromptTurn, name))
			if err != nil {
				return res, fmt.Errorf("discussion: %s speak: %w", name, err)
			}

			switch {
			case d.ReadyCheck && said == ReadySentinel:
				ready[name] = struct{}{}
				res.Ready = append(res.Ready, name)
				if d.Prompts.Has(PromptReady) {
					t.Announce(d.Prompts.Format(PromptReady, name, len(ready), len(participants)), d.Visibility, StyleNarration)
				}
			case said != "":
				res.Speeches++
				t.Announce(d.Prompts.Format(PromptSpeech, name, said), d.Visibility, speechStyle)
			}
		}
	}

	if res.Rounds >= d.MaxRounds && len(ready) < len(participants) {
		res.TimedOut = true
		if d.Prompts.Has(PromptTimeout) {
			t.Announce(d.Prompts.Format(PromptTimeout, d.MaxRounds), d.Visibility, StyleNarration)
		}
	}

	t.log.Debug("discussion finished", "rounds", res.Rounds, "ready", len(ready), "speeches", res.Speeches)
	return res, nil
}
