package elimination

import "github.com/Sigma-Eleven/model/internal/game"

var nightTalk = game.Prompts{
	game.PromptStart:        "Infiltrators, agree on tonight's target.",
	game.PromptAlivePlayers: "Infiltrators awake: {0}",
	game.PromptTurn:         "{0}, talk to your team (answer 0 when ready): ",
	game.PromptSpeech:       "[team] {0}: {1}",
	game.PromptReady:        "{0} is ready ({1}/{2})",
	game.PromptTimeout:      "Out of time after {0} rounds.",
}

var nightVote = game.Prompts{
	game.PromptStart:     "Choose tonight's target.",
	game.PromptTurn:      "{0}, who is the target? ",
	game.PromptAction:    "{0} picks {1}",
	game.PromptResultOut: "Target chosen: {0}",
	game.PromptResultTie: "No agreement, choose again.",
}

var dayTalk = game.Prompts{
	game.PromptAlivePlayers: "Players still in the game: {0}",
	game.PromptTurn:         "{0}, your turn to speak: ",
	game.PromptSpeech:       "{0}: {1}",
	game.PromptReady:        "{0} has nothing more to say ({1}/{2})",
	game.PromptTimeout:      "Discussion closed after {0} rounds.",
}

var dayVote = game.Prompts{
	game.PromptStart:     "Time to vote.",
	game.PromptTurn:      "{0}, who do you vote out? ",
	game.PromptAction:    "{0} votes for {1}",
	game.PromptResultOut: "{0} has been voted out.",
	game.PromptResultTie: "The vote is tied, nobody leaves today.",
}

var lines = game.Prompts{
	"roles":            "Roles this game: {0}",
	"players":          "Players: {0}",
	"your_role":        "Your role is: {0}",
	"teammates":        "Your fellow infiltrators: {0}",
	"alone":            "You are the only infiltrator.",
	"begin":            "The game begins. Night falls.",
	"nightfall":        "Night {0}. Everyone close your eyes.",
	"wake":             "Infiltrators, open your eyes.",
	"sleep":            "Infiltrators, close your eyes.",
	"dawn":             "Day {0} begins.",
	"killed":           "{0} was eliminated during the night.",
	"quiet":            "A quiet night: nobody was eliminated.",
	"last_words":       "{0}, your last words: ",
	"last_speech":      "[last words] {0}: {1}",
	"silence":          "{0} leaves without a word.",
	"citizens_win":     "Game over: the citizens win!",
	"infiltrators_win": "Game over: the infiltrators win!",
	"stopped":          "The game has been stopped.",
}
