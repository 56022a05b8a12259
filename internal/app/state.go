// Package app is the application state machine.
//
// A single *State holds everything the terminal UI shows. It is mutated only
// by Update, one message at a time, and store I/O runs synchronously inside
// Update. After every mutation the search and calendar indices are rebuilt
// from the stores. Renderers read a Snapshot and never touch State directly.
package app

import (
	"log/slog"
	"time"

	"ratanotes/internal/apperr"
	"ratanotes/internal/calendar"
	"ratanotes/internal/config"
	"ratanotes/internal/notes"
	"ratanotes/internal/search"
	"ratanotes/internal/tasks"
)

// View is the screen being shown.
type View int

const (
	ViewNoteList View = iota
	ViewEditor
	ViewCalendar
	ViewTasks
	ViewSearch
	ViewHelp
)

var viewNames = [...]string{"Notes", "Editor", "Calendar", "Tasks", "Search", "Help"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Mode is the input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
	ModeSearch
	ModePrompt
)

var modeNames = [...]string{"NORMAL", "INSERT", "COMMAND", "SEARCH", "PROMPT"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "UNKNOWN"
}

// Focus selects the pane of the note list view that receives navigation.
type Focus int

const (
	FocusNotes Focus = iota
	FocusTags
)

type promptKind int

const (
	promptNewNote promptKind = iota
	promptRename
	promptAddTag
	promptNewTask
	promptNewSubTask
	promptEditTask
)

type prompt struct {
	kind   promptKind
	label  string
	input  []rune
	path   string // note target
	taskID int64  // task target
}

type pending struct {
	trigger Message // a repeat of this message type also confirms
	text    string
	run     func()
}

type status struct {
	text  string
	isErr bool
	until time.Time
}

// Options configures a State.
type Options struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
	StatusTTL        time.Duration
	ErrorStatusTTL   time.Duration
	Now              func() time.Time
	Logger           *slog.Logger
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		ConfirmDeletions: true,
		StatusTTL:        5 * time.Second,
		ErrorStatusTTL:   8 * time.Second,
		Now:              time.Now,
	}
}

// OptionsFromConfig builds Options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	opts := DefaultOptions()
	opts.Keys = &cfg.Keys
	opts.ConfirmDeletions = cfg.UX.ConfirmDeletions
	if cfg.UX.StatusSeconds > 0 {
		opts.StatusTTL = time.Duration(cfg.UX.StatusSeconds) * time.Second
		if opts.ErrorStatusTTL < opts.StatusTTL {
			opts.ErrorStatusTTL = opts.StatusTTL
		}
	}
	opts.Logger = logger
	return opts
}

// State is the whole application state.
type State struct {
	notes  *notes.Store
	tasks  *tasks.Store
	index  *search.Index
	cal    *calendar.Index
	keys   KeyMap
	opts   Options
	now    func() time.Time
	logger *slog.Logger

	view     View
	prevView View // restored when help closes
	mode     Mode
	running  bool

	// Note list
	noteSel   int
	notePath  string // path under the cursor, kept across reindexing
	focus     Focus
	tagSel    int
	activeTag string
	query     string
	results   search.Result

	// Tasks
	taskSel int

	// Editor
	buffers map[string]*Buffer
	active  string

	// Calendar
	month calendar.Month
	day   calendar.Date

	command []rune
	prompt  *prompt
	pending *pending
	status  status
}

// New builds a state over loaded stores.
func New(ns *notes.Store, ts *tasks.Store, opts Options) *State {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = 5 * time.Second
	}
	if opts.ErrorStatusTTL <= 0 {
		opts.ErrorStatusTTL = 8 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	today := calendar.DateOf(opts.Now())
	s := &State{
		notes:   ns,
		tasks:   ts,
		keys:    NewKeyMap(opts.Keys),
		opts:    opts,
		now:     opts.Now,
		logger:  logger,
		view:    ViewNoteList,
		mode:    ModeNormal,
		running: true,
		buffers: make(map[string]*Buffer),
		month:   calendar.MonthOf(today),
		day:     today,
	}
	s.reindex()
	return s
}

// Keys returns the active Normal-mode bindings.
func (s *State) Keys() KeyMap { return s.keys }

// Running reports whether the application should keep going.
func (s *State) Running() bool { return s.running }

// View returns the current view.
func (s *State) View() View { return s.view }

// Mode returns the current input mode.
func (s *State) Mode() Mode { return s.mode }

// SetStatus shows msg in the status slot until its TTL expires.
func (s *State) SetStatus(msg string, isErr bool) {
	ttl := s.opts.StatusTTL
	if isErr {
		ttl = s.opts.ErrorStatusTTL
	}
	s.status = status{text: msg, isErr: isErr, until: s.now().Add(ttl)}
}

func (s *State) setError(prefix string, err error) {
	s.logger.Warn("app: "+prefix, slog.String("kind", apperr.Kind(err)), slog.String("error", err.Error()))
	s.SetStatus(prefix+": "+err.Error(), true)
}

// reindex rebuilds the derived indices from the stores and re-applies the
// current filter.
func (s *State) reindex() {
	s.index = search.Build(s.notes.All(), s.tasks.Flatten())
	s.cal = calendar.Build(s.notes.Paths())
	s.refilter()
}

// refilter recomputes the visible lists after a query, tag or index change.
func (s *State) refilter() {
	s.results = s.index.Filter(s.query, s.activeTag)

	s.noteSel = clamp(s.noteSel, len(s.results.Notes))
	if s.notePath != "" {
		for i, n := range s.results.Notes {
			if n.Path == s.notePath {
				s.noteSel = i
				break
			}
		}
	}
	s.syncNotePath()

	s.taskSel = clamp(s.taskSel, len(s.results.Tasks))
	s.tagSel = clamp(s.tagSel, len(s.index.Tags()))
}

func (s *State) syncNotePath() {
	if s.noteSel < len(s.results.Notes) {
		s.notePath = s.results.Notes[s.noteSel].Path
	} else {
		s.notePath = ""
	}
}

func (s *State) selectedNote() (notes.Note, bool) {
	if s.noteSel < 0 || s.noteSel >= len(s.results.Notes) {
		return notes.Note{}, false
	}
	return s.results.Notes[s.noteSel], true
}

func (s *State) selectedTask() (tasks.Row, bool) {
	if s.taskSel < 0 || s.taskSel >= len(s.results.Tasks) {
		return tasks.Row{}, false
	}
	return s.results.Tasks[s.taskSel], true
}

// dirtyPaths lists notes with unsaved edits.
func (s *State) dirtyPaths() []string {
	var out []string
	for p, b := range s.buffers {
		if b.Dirty() {
			out = append(out, p)
		}
	}
	return out
}

// HasUnsaved reports whether any note buffer or the task list has unsaved
// changes.
func (s *State) HasUnsaved() bool {
	return len(s.dirtyPaths()) > 0 || s.tasks.Dirty()
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
