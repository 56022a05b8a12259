// Package ui renders the application state in the terminal and feeds
// Bubble Tea events into it.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ratanotes/internal/app"
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows the note list and the tag pane side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	NarrowLayoutThreshold int
	Now                   func() time.Time
}

// App is the Bubble Tea model. It owns the state machine and only reads
// snapshots of it for rendering.
type App struct {
	state       *app.State
	styles      *Styles
	config      *AppConfig
	helpOverlay *HelpOverlay
	layoutMode  LayoutMode
	width       int
	height      int
	quitting    bool
}

// NewApp creates the model around a ready state.
func NewApp(state *app.State, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{NarrowLayoutThreshold: 80}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	a := &App{
		state:       state,
		styles:      styles,
		config:      cfg,
		helpOverlay: NewHelpOverlay(styles, state.Keys()),
		width:       80,
		height:      24,
	}
	a.updateLayout()
	return a
}

// Init starts the status clock.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update forwards events to the state machine and quits once it stops.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		a.state.Update(app.Tick{Now: time.Time(msg)})
		cmd = tickCmd()

	case tea.KeyMsg:
		a.state.Update(keyPress(msg))

	case app.NotesChanged:
		a.state.Update(msg)
	}

	if !a.state.Running() {
		a.quitting = true
		return a, tea.Quit
	}
	return a, cmd
}

// updateLayout recalculates the layout from the terminal dimensions.
func (a *App) updateLayout() {
	a.helpOverlay.SetSize(a.width, a.height)

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}
	if a.width < threshold {
		a.layoutMode = LayoutNarrow
	} else {
		a.layoutMode = LayoutWide
	}
}

// contentSize is the space left between the title bar and the two bottom lines.
func (a *App) contentSize() (width, height int) {
	return max(20, a.width), max(6, a.height-4)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	snap := a.state.Snapshot()
	if snap.View == app.ViewHelp {
		return a.helpOverlay.View()
	}

	width, height := a.contentSize()

	var b strings.Builder
	b.WriteString(a.renderTitleBar(snap))
	b.WriteString("\n")

	switch snap.View {
	case app.ViewEditor:
		b.WriteString(a.renderEditor(snap, width, height))
	case app.ViewCalendar:
		b.WriteString(a.renderCalendar(snap, width, height))
	case app.ViewTasks:
		b.WriteString(a.renderTasks(snap, width, height))
	case app.ViewSearch:
		b.WriteString(a.renderSearch(snap, width, height))
	default:
		b.WriteString(a.renderNoteList(snap, width, height))
	}
	b.WriteString("\n")

	b.WriteString(a.renderInputLine(snap))
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar(snap))

	return b.String()
}

func (a *App) renderGoodbye() string {
	return "\n  See you later!\n\n"
}

// renderTitleBar creates the top title bar with mode, view and counts.
func (a *App) renderTitleBar(snap app.Snapshot) string {
	title := a.styles.TitleStyle.Render(" ratanotes ")

	modeStyle := a.styles.ModeStyle
	if snap.Mode == app.ModeInsert {
		modeStyle = a.styles.InsertModeStyle
	}
	mode := modeStyle.Render(snap.Mode.String())
	view := a.styles.PaneTitleStyle.UnsetMarginBottom().Render(snap.View.String())

	statsItems := []string{
		fmt.Sprintf("Notes: %d", snap.NoteCount),
		fmt.Sprintf("Tasks: %d", snap.TaskCount),
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))
	if snap.Dirty {
		stats += " " + a.styles.DirtyStyle.Render("[+]")
	}

	date := a.styles.DateStyle.Render(a.config.Now().Format("Mon Jan 2 · 15:04"))

	left := title + " " + mode + " " + view + "  " + stats
	spacer := a.width - lipgloss.Width(left) - lipgloss.Width(date)
	if spacer < 2 {
		spacer = 2
	}
	return left + strings.Repeat(" ", spacer) + date
}

// renderInputLine shows whatever currently needs the user's attention:
// a pending confirmation, the command or search line, a prompt or the status.
func (a *App) renderInputLine(snap app.Snapshot) string {
	switch {
	case snap.Confirm != "":
		return a.styles.ConfirmStyle.Render(snap.Confirm)
	case snap.Mode == app.ModeCommand:
		return a.styles.InputPromptStyle.Render(":") + a.styles.InputTextStyle.Render(snap.Command) + a.styles.CursorStyle.Render(" ")
	case snap.Mode == app.ModeSearch:
		return a.styles.InputPromptStyle.Render("/") + a.styles.InputTextStyle.Render(snap.Query) + a.styles.CursorStyle.Render(" ")
	case snap.Prompt != nil:
		return a.styles.InputPromptStyle.Render(snap.Prompt.Label+": ") + a.styles.InputTextStyle.Render(snap.Prompt.Input) + a.styles.CursorStyle.Render(" ")
	case snap.Status != "":
		if snap.StatusIsErr {
			return a.styles.ErrorStyle.Render(snap.Status)
		}
		return a.styles.StatusStyle.Render(snap.Status)
	}
	return ""
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar(snap app.Snapshot) string {
	switch snap.Mode {
	case app.ModeInsert:
		return a.styles.RenderHelp("esc", "normal", "ctrl+s", "save")
	case app.ModeCommand:
		return a.styles.RenderHelp("enter", "run", "esc", "cancel")
	case app.ModeSearch:
		return a.styles.RenderHelp("enter", "filter notes", "↑/↓", "move", "esc", "clear")
	case app.ModePrompt:
		return a.styles.RenderHelp("enter", "ok", "esc", "cancel")
	}

	var pairs []string
	for _, binding := range a.state.Keys().ShortHelp(snap.View) {
		h := binding.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return a.styles.RenderHelp(pairs...)
}

// NewProgram creates the full-screen program for model. Messages sent
// through the program's Send, such as app.NotesChanged, reach the state
// machine in order with key events.
func NewProgram(model *App) *tea.Program {
	return tea.NewProgram(model, tea.WithAltScreen())
}
