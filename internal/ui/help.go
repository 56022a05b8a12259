package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"ratanotes/internal/app"
)

var helpSections = []string{"Global", "Navigation", "Notes", "Tasks", "Calendar", "Confirm"}

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	keys   app.KeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, keys app.KeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		keys:   keys,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("ratanotes - Keyboard Shortcuts"))
	b.WriteString("\n")

	for i, group := range h.keys.FullHelp() {
		b.WriteString("\n")
		if i < len(helpSections) {
			b.WriteString(sectionStyle.Render(helpSections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			b.WriteString(keyStyle.Render(keysLabel(binding)) + descStyle.Render(binding.Help().Desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Insert / Command"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("esc") + descStyle.Render("Back to normal mode") + "\n")
	b.WriteString(keyStyle.Render(":w :q :wq :q!") + descStyle.Render("Save, quit") + "\n")

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// keysLabel lists every key of a binding, naming space explicitly.
func keysLabel(b key.Binding) string {
	keys := b.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		out[i] = k
	}
	return strings.Join(out, " / ")
}
