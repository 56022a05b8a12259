package app

import (
	"ratanotes/internal/calendar"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	View  View
	Mode  Mode
	Focus Focus

	Notes     []notes.Note
	NoteSel   int
	Tags      []string
	TagSel    int
	ActiveTag string

	Tasks   []tasks.Row
	TaskSel int

	Query       string
	Command     string
	Prompt      *PromptSnapshot
	Confirm     string
	Status      string
	StatusIsErr bool

	Editor   *EditorSnapshot
	Calendar CalendarSnapshot

	Dirty      bool
	DirtyCount int
	NoteCount  int
	TaskCount  int
	Running    bool
}

// PromptSnapshot is an open single-line prompt.
type PromptSnapshot struct {
	Label string
	Input string
}

// EditorSnapshot describes the note open in the editor.
type EditorSnapshot struct {
	Path  string
	Title string
	Lines []string
	Row   int
	Col   int
	Dirty bool
}

// CalendarSnapshot is the displayed month.
type CalendarSnapshot struct {
	Month    calendar.Month
	Grid     [][7]calendar.Day
	Selected calendar.Date
	Today    calendar.Date
	Path     string // note for the selected day, if any
}

// Snapshot copies the renderable state.
func (s *State) Snapshot() Snapshot {
	dirty := s.dirtyPaths()
	today := calendar.DateOf(s.now())

	snap := Snapshot{
		View:        s.view,
		Mode:        s.mode,
		Focus:       s.focus,
		Notes:       append([]notes.Note(nil), s.results.Notes...),
		NoteSel:     s.noteSel,
		Tags:        append([]string(nil), s.index.Tags()...),
		TagSel:      s.tagSel,
		ActiveTag:   s.activeTag,
		Tasks:       append([]tasks.Row(nil), s.results.Tasks...),
		TaskSel:     s.taskSel,
		Query:       s.query,
		Command:     string(s.command),
		Status:      s.status.text,
		StatusIsErr: s.status.isErr,
		Calendar: CalendarSnapshot{
			Month:    s.month,
			Grid:     s.cal.MonthGrid(s.month, s.day, today),
			Selected: s.day,
			Today:    today,
		},
		Dirty:      len(dirty) > 0 || s.tasks.Dirty(),
		DirtyCount: len(dirty),
		NoteCount:  s.notes.Len(),
		TaskCount:  s.tasks.Len(),
		Running:    s.running,
	}
	snap.Calendar.Path, _ = s.cal.ResolveDay(s.day)

	if s.prompt != nil {
		snap.Prompt = &PromptSnapshot{Label: s.prompt.label, Input: string(s.prompt.input)}
	}
	if s.pending != nil {
		snap.Confirm = s.pending.text
	}
	if b, ok := s.buffers[s.active]; ok {
		row, col := b.Position()
		title := s.active
		if n, ok := s.notes.Get(s.active); ok {
			title = n.Title
		}
		snap.Editor = &EditorSnapshot{
			Path:  s.active,
			Title: title,
			Lines: b.Lines(),
			Row:   row,
			Col:   col,
			Dirty: b.Dirty(),
		}
	}
	return snap
}
