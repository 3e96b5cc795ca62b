package elimination

import (
	"strings"

	"github.com/Sigma-Eleven/model/internal/game"
)

type action = game.ActionContext[State]

func (g *Game) phases() []game.Phase[State] {
	return []game.Phase[State]{
		{Name: "night", Steps: []game.Step[State]{
			{Name: "nightfall", Action: game.ActionFunc[State](nightfall)},
			{
				Name:   "infiltrators",
				Roles:  []game.Role{Infiltrator},
				Action: game.ActionFunc[State](g.infiltrators),
				Condition: func(e *game.Engine[State]) bool {
					_, ok := e.Roster.FirstAliveByRole(Infiltrator)
					return ok
				},
			},
		}},
		{Name: "day", Steps: []game.Step[State]{
			{Name: "dawn", Action: game.ActionFunc[State](dawn)},
			{Name: "discussion", Action: game.ActionFunc[State](g.discussion)},
			{Name: "vote", Action: game.ActionFunc[State](dayVoteStep)},
		}},
	}
}

func nightfall(ac *action) error {
	ac.State.mu.Lock()
	ac.State.day++
	ac.State.marked = ""
	day := ac.State.day
	ac.State.mu.Unlock()

	ac.Table().Announce(lines.Format("nightfall", day), nil, game.StyleNarration)
	return nil
}

func (g *Game) infiltrators(ac *action) error {
	t := ac.Table()
	team := t.Roster.AliveNames(Infiltrator)

	t.Announce(lines.Format("wake"), nil, game.StyleNarration)

	if len(team) > 1 {
		_, err := t.RunDiscussion(ac.Context(), game.Discussion{
			Participants: team,
			Prompts:      nightTalk,
			MaxRounds:    g.Settings.NightRounds,
			ReadyCheck:   true,
			Visibility:   team,
		})
		if err != nil {
			return err
		}
	}

	res, err := t.RunVote(ac.Context(), game.Vote{
		Voters:     team,
		Candidates: t.Roster.AliveNames(Citizen),
		Prompts:    nightVote,
		RetryOnTie: true,
		MaxRetries: g.Settings.VoteRetries,
		Visibility: team,
	})
	if err != nil {
		return err
	}
	if res.Decided {
		ac.State.mu.Lock()
		ac.State.marked = res.Winner
		ac.State.mu.Unlock()
	}

	t.Announce(lines.Format("sleep"), nil, game.StyleNarration)
	return nil
}

func dawn(ac *action) error {
	t := ac.Table()

	ac.State.mu.Lock()
	day, marked := ac.State.day, ac.State.marked
	ac.State.marked = ""
	ac.State.mu.Unlock()

	t.Announce(lines.Format("dawn", day), nil, game.StyleNarration)
	if marked == "" || !t.Roster.Kill(marked) {
		t.Announce(lines.Format("quiet"), nil, game.StyleNarration)
		return nil
	}
	t.Announce(lines.Format("killed", marked), nil, game.StyleAlert)

	// only the first victim of the game gets to speak
	if day == 1 {
		return lastWords(ac, marked)
	}
	return nil
}

func (g *Game) discussion(ac *action) error {
	_, err := ac.Table().RunDiscussion(ac.Context(), game.Discussion{
		Participants: ac.Table().Roster.AliveNames(),
		Prompts:      dayTalk,
		MaxRounds:    g.Settings.DayRounds,
		Shuffle:      g.Settings.ShuffleSpeakers,
	})
	return err
}

func dayVoteStep(ac *action) error {
	t := ac.Table()
	alive := t.Roster.AliveNames()

	res, err := t.RunVote(ac.Context(), game.Vote{
		Voters:     alive,
		Candidates: alive,
		Prompts:    dayVote,
	})
	if err != nil {
		return err
	}
	if !res.Decided || !t.Roster.Kill(res.Winner) {
		return nil
	}
	return lastWords(ac, res.Winner)
}

func lastWords(ac *action, name string) error {
	t := ac.Table()
	p, ok := t.Roster.Participant(name)
	if !ok {
		return nil
	}
	said, err := p.Speak(ac.Context(), lines.Format("last_words", name))
	if err != nil {
		return err
	}
	if said = strings.TrimSpace(said); said != "" {
		t.Announce(lines.Format("last_speech", name, said), nil, game.StyleSpeech)
	} else {
		t.Announce(lines.Format("silence", name), nil, game.StyleNarration)
	}
	return nil
}
