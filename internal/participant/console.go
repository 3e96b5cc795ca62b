package participant

import (
	"context"
	"fmt"

	"github.com/Sigma-Eleven/model/internal/game"

	"github.com/pterm/pterm"
)

// Console is a human seat at the local terminal.
type Console struct {
	Name string
}

func NewConsole(name string) *Console {
	return &Console{Name: name}
}

func (c *Console) Speak(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
	if err != nil {
		return "", fmt.Errorf("read speech: %w", err)
	}
	return text, ctx.Err()
}

func (c *Console) Choose(ctx context.Context, prompt string, candidates []string, allowSkip bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	options := append([]string(nil), candidates...)
	if allowSkip {
		options = append(options, game.Skip)
	}
	if len(options) == 0 {
		return "", nil
	}
	choice, err := pterm.DefaultInteractiveSelect.WithDefaultText(prompt).WithOptions(options).Show()
	if err != nil {
		return "", fmt.Errorf("read choice: %w", err)
	}
	return choice, ctx.Err()
}

func (c *Console) Receive(a game.Announcement) {
	Render(a)
}

// Render prints an announcement in the style it was tagged with.
func Render(a game.Announcement) {
	switch a.Style {
	case game.StyleSpeech:
		pterm.Println(a.Style.Prefix() + " " + a.Message)
	case game.StyleAlert:
		pterm.Warning.Println(a.Message)
	default:
		pterm.Info.Println(a.Message)
	}
}
