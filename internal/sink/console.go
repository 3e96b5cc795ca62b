package sink

import (
	"strings"

	"github.com/Sigma-Eleven/model/internal/game"

	"github.com/pterm/pterm"
)

// ConsoleSink renders the omniscient view on the terminal. Private
// announcements are tagged with their audience.
type ConsoleSink struct{}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

func (s *ConsoleSink) Emit(a game.Announcement) error {
	line := Line(a)
	switch a.Style {
	case game.StyleAlert:
		pterm.Warning.Println(line)
	case game.StyleSpeech:
		pterm.Println(line)
	default:
		pterm.Info.Println(line)
	}
	return nil
}

// Line formats an announcement as prefix, optional audience and message.
func Line(a game.Announcement) string {
	var b strings.Builder
	b.WriteString(a.Style.Prefix())
	if !a.Public() {
		b.WriteString(" [")
		b.WriteString(strings.Join(a.VisibleTo, ", "))
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(a.Message)
	return b.String()
}
