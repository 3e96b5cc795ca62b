package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Prompt keys understood by the discussion and voting protocols.
const (
	PromptStart        = "start"
	PromptAlivePlayers = "alive_players"
	PromptTurn         = "prompt"
	PromptSpeech       = "speech"
	PromptReady        = "ready_msg"
	PromptTimeout      = "timeout"
	PromptAction       = "action"
	PromptResultOut    = "result_out"
	PromptResultTie    = "result_tie"
)

// Prompts is a set of message templates with positional placeholders {0},
// {1}, ... Templates are opaque to the engine.
type Prompts map[string]string

func (p Prompts) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Format fills the template stored under key. A missing key yields "".
func (p Prompts) Format(key string, args ...any) string {
	tmpl, ok := p[key]
	if !ok {
		return ""
	}
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(args))
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
