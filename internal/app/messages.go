package app

import "time"

// Message is anything fed to (*State).Update. Values of types this package
// does not define are ignored.
type Message any

// KeyPress is a raw key event. Key uses Bubble Tea's naming ("j", "enter",
// "ctrl+c", " " for space); Runes holds the typed characters for printable
// keys and is empty for special keys.
type KeyPress struct {
	Key   string
	Runes []rune
}

// String returns the key name.
func (k KeyPress) String() string { return k.Key }

// Key builds a KeyPress for a named special key.
func Key(name string) KeyPress { return KeyPress{Key: name} }

// Char builds a KeyPress for a printable character.
func Char(r rune) KeyPress { return KeyPress{Key: string(r), Runes: []rune{r}} }

// Navigation and mode changes.
type (
	MoveUp       struct{}
	MoveDown     struct{}
	Open         struct{}
	EnterInsert  struct{}
	EnterCommand struct{}
	EnterSearch  struct{}
	SwitchView   struct{ View View }
	ToggleHelp   struct{}
	ToggleFocus  struct{}
	SelectTag    struct{}
	Confirm      struct{}
	Cancel       struct{}
)

// Text editing. In Insert mode these edit the open note; in Command, Search
// and Prompt mode they edit the input line.
type (
	InsertChar  struct{ Char rune }
	InsertText  struct{ Text string }
	Backspace   struct{}
	NewLine     struct{}
	CursorLeft  struct{}
	CursorRight struct{}
	CursorUp    struct{}
	CursorDown  struct{}
	CursorHome  struct{}
	CursorEnd   struct{}
)

// CommandSubmit runs a ":" command line without the leading colon.
type CommandSubmit struct{ Line string }

// Note actions.
type (
	NewNote    struct{}
	RenameNote struct{}
	DeleteNote struct{}
	AddTag     struct{}
)

// Task actions.
type (
	NewTask       struct{}
	NewSubTask    struct{}
	EditTask      struct{}
	DeleteTask    struct{}
	ToggleTask    struct{}
	CyclePriority struct{}
)

// Calendar navigation.
type (
	PrevMonth struct{}
	NextMonth struct{}
	MoveDay   struct{ Days int }
	OpenDay   struct{}
)

// Lifecycle.
type (
	Save      struct{}
	Quit      struct{}
	ForceQuit struct{}
)

// Tick advances the clock used for status expiry.
type Tick struct{ Now time.Time }

// NotesChanged reports absolute paths that changed on disk outside the
// application.
type NotesChanged struct{ Paths []string }
