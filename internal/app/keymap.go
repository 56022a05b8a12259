package app

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"ratanotes/internal/config"
)

// matches reports whether k triggers any enabled binding in bs.
func matches(k KeyPress, bs ...key.Binding) bool {
	for _, b := range bs {
		if b.Enabled() && slices.Contains(b.Keys(), k.Key) {
			return true
		}
	}
	return false
}

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		// " " is a valid binding (space), so only trim when something is left.
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			result = append(result, trimmed)
		} else if k == " " {
			result = append(result, k)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	for i, k := range result {
		if k == "space" {
			result[i] = " "
		}
	}
	return result
}

// KeyMap holds the Normal-mode bindings. Insert, Command, Search and Prompt
// mode use fixed editing keys.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Command   key.Binding
	Search    key.Binding
	Notes     key.Binding
	Calendar  key.Binding
	Tasks     key.Binding
	Save      key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Insert key.Binding
	Focus  key.Binding

	// Items
	Add      key.Binding
	Rename   key.Binding
	Delete   key.Binding
	AddTag   key.Binding
	Toggle   key.Binding
	SubTask  key.Binding
	Priority key.Binding
	Edit     key.Binding

	// Calendar
	PrevDay   key.Binding
	NextDay   key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding

	// Confirmation
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(&config.KeysConfig{})
}

// NewKeyMap creates bindings from config, falling back to defaults for
// every empty field.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q")...),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit now"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		Command: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Command, ":")...),
			key.WithHelp(":", "command"),
		),
		Search: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Search, "/")...),
			key.WithHelp("/", "search"),
		),
		Notes: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Notes, "n")...),
			key.WithHelp("n", "notes"),
		),
		Calendar: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Calendar, "c")...),
			key.WithHelp("c", "calendar"),
		),
		Tasks: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Tasks, "T")...),
			key.WithHelp("T", "tasks"),
		),
		Save: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Save, "ctrl+s")...),
			key.WithHelp("ctrl+s", "save"),
		),
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Open, "enter")...),
			key.WithHelp("enter", "open"),
		),
		Insert: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Insert, "i")...),
			key.WithHelp("i", "insert"),
		),
		Focus: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Focus, "tab")...),
			key.WithHelp("tab", "notes/tags"),
		),
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Add, "a")...),
			key.WithHelp("a", "add"),
		),
		Rename: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Rename, "r")...),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Delete, "d")...),
			key.WithHelp("d", "delete"),
		),
		AddTag: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTag, "t")...),
			key.WithHelp("t", "add tag"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Toggle, " ", "x")...),
			key.WithHelp("space", "toggle"),
		),
		SubTask: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SubTask, "s")...),
			key.WithHelp("s", "sub-task"),
		),
		Priority: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Priority, "p")...),
			key.WithHelp("p", "priority"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Edit, "e")...),
			key.WithHelp("e", "edit"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevDay, "h", "left")...),
			key.WithHelp("h", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextDay, "l", "right")...),
			key.WithHelp("l", "next day"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevMonth, "H")...),
			key.WithHelp("H", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextMonth, "L")...),
			key.WithHelp("L", "next month"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "y", "enter")...),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "n", "esc")...),
			key.WithHelp("n", "cancel"),
		),
	}
}

// ShortHelp returns the bindings shown in the help bar for v.
func (k KeyMap) ShortHelp(v View) []key.Binding {
	switch v {
	case ViewNoteList:
		return []key.Binding{k.Open, k.Add, k.Rename, k.Delete, k.AddTag, k.Focus, k.Search, k.Help}
	case ViewEditor:
		return []key.Binding{k.Insert, k.Save, k.Command, k.Notes, k.Help}
	case ViewCalendar:
		return []key.Binding{k.PrevDay, k.NextDay, k.PrevMonth, k.NextMonth, k.Open, k.Help}
	case ViewTasks:
		return []key.Binding{k.Add, k.SubTask, k.Edit, k.Toggle, k.Priority, k.Delete, k.Help}
	case ViewSearch:
		return []key.Binding{k.Open, k.Search, k.Notes, k.Help}
	default:
		return []key.Binding{k.Help, k.Quit}
	}
}

// FullHelp returns every binding grouped for the help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Notes, k.Calendar, k.Tasks, k.Search, k.Command, k.Help, k.Save, k.Quit, k.ForceQuit},
		{k.Up, k.Down, k.Open, k.Insert, k.Focus},
		{k.Add, k.Rename, k.Delete, k.AddTag},
		{k.SubTask, k.Edit, k.Toggle, k.Priority},
		{k.PrevDay, k.NextDay, k.PrevMonth, k.NextMonth},
		{k.Confirm, k.Cancel},
	}
}
