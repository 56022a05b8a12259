package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ratanotes/internal/app"
)

// keyPress converts a Bubble Tea key event into the state machine's key type.
// Space is always named " ". Only plain typed characters carry runes; alt
// combinations are treated as named keys so they never insert text.
func keyPress(msg tea.KeyMsg) app.KeyPress {
	k := app.KeyPress{Key: msg.String()}
	switch {
	case msg.Type == tea.KeySpace:
		k.Key = " "
		k.Runes = []rune{' '}
	case msg.Type == tea.KeyRunes && !msg.Alt:
		k.Runes = append([]rune(nil), msg.Runes...)
	}
	return k
}
