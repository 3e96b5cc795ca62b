package game

import (
	"context"
	"fmt"
)

// DefaultMaxRetries matches the usual retry budget of a night vote.
const DefaultMaxRetries = 5

// Vote configures one RunVote call.
type Vote struct {
	Voters     []string
	Candidates []string
	Prompts    Prompts
	// RetryOnTie repeats tied rounds; after MaxRetries tied rounds a winner
	// is drawn at random among the tied candidates.
	RetryOnTie bool
	MaxRetries int
	Visibility []string
	// ChoiceStyle is used for the per-voter "action" announcement and
	// defaults to StyleSpeech.
	ChoiceStyle Style
}

// Tally maps candidate name to the number of votes it received.
type Tally map[string]int

// Leaders returns, in candidate order, the candidates sharing the highest
// non-zero count.
func (t Tally) Leaders(candidates []string) ([]string, int) {
	best := 0
	for _, c := range candidates {
		if t[c] > best {
			best = t[c]
		}
	}
	if best == 0 {
		return nil, 0
	}
	var out []string
	for _, c := range candidates {
		if t[c] == best {
			out = append(out, c)
		}
	}
	return out, best
}

type VoteResult struct {
	Winner string
	// Decided is false when the vote ended without a winner.
	Decided  bool
	Rounds   int
	Tally    Tally
	Tied     []string
	Fallback bool
}

// RunVote collects one choice per voter and resolves the majority. A choice
// that is not a candidate counts as an abstention.
func (t *Table) RunVote(ctx context.Context, v Vote) (VoteResult, error) {
	var res VoteResult

	candidates := dedupe(v.Candidates)
	if len(candidates) == 0 {
		t.log.Warn("vote: no candidates")
		return res, nil
	}

	choiceStyle := v.ChoiceStyle
	if choiceStyle == "" {
		choiceStyle = StyleSpeech
	}
	resultStyle := StyleAlert
	if len(v.Visibility) > 0 {
		resultStyle = StyleNarration
	}

	if v.Prompts.Has(PromptStart) {
		t.Announce(v.Prompts.Format(PromptStart), v.Visibility, StyleNarration)
	}

	for {
		res.Rounds++
		tally, err := t.collect(ctx, v, candidates, choiceStyle)
		if err != nil {
			return res, err
		}
		res.Tally = tally

		leaders, count := tally.Leaders(candidates)
		if len(leaders) == 1 {
			res.Winner, res.Decided, res.Tied = leaders[0], true, nil
			t.log.Debug("vote decided", "winner", res.Winner, "votes", count, "rounds", res.Rounds)
			t.announceWinner(v, res.Winner, resultStyle)
			return res, nil
		}

		res.Tied = leaders
		voteTiesTotal.Inc()
		if v.Prompts.Has(PromptResultTie) {
			t.Announce(v.Prompts.Format(PromptResultTie), v.Visibility, StyleNarration)
		}
		if !v.RetryOnTie {
			return res, nil
		}
		if res.Rounds >= v.MaxRetries {
			pool := leaders
			if len(pool) == 0 {
				pool = candidates
			}
			res.Winner = pool[t.rng.IntN(len(pool))]
			res.Decided, res.Fallback = true, true
			voteFallbacksTotal.Inc()
			t.log.Warn("vote retries exhausted, drawing winner at random", "winner", res.Winner, "pool", pool, "rounds", res.Rounds)
			t.announceWinner(v, res.Winner, resultStyle)
			return res, nil
		}
	}
}

func (t *Table) collect(ctx context.Context, v Vote, candidates []string, style Style) (Tally, error) {
	tally := make(Tally, len(candidates))
	for _, c := range candidates {
		tally[c] = 0
	}

	for _, name := range v.Voters {
		p, ok := t.Roster.Participant(name)
		if !ok {
			t.log.Warn("vote: dropping unknown voter", "name", name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		choice, err := p.Choose(ctx, v.Prompts.Format(PromptTurn, name), append([]string(nil), candidates...), false)
		if err != nil {
			return nil, fmt.Errorf("vote: %s choose: %w", name, err)
		}
		if _, ok := tally[choice]; !ok {
			t.log.Warn("vote: choice is not a candidate, counted as abstention", "voter", name, "choice", choice)
			continue
		}
		tally[choice]++
		votesCastTotal.Inc()

		if v.Prompts.Has(PromptAction) {
			t.Announce(v.Prompts.Format(PromptAction, name, choice), v.Visibility, style)
		}
	}
	return tally, nil
}

func (t *Table) announceWinner(v Vote, winner string, style Style) {
	if v.Prompts.Has(PromptResultOut) {
		t.Announce(v.Prompts.Format(PromptResultOut, winner), v.Visibility, style)
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
