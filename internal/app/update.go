package app

import (
	"fmt"
	"reflect"
	"time"

	"ratanotes/internal/calendar"
)

// Update applies one message. It never blocks on anything but local file I/O
// and ignores messages it does not understand.
func (s *State) Update(msg Message) {
	if k, ok := msg.(KeyPress); ok {
		msg = s.Resolve(k)
		if msg == nil {
			if s.pending != nil {
				s.cancelPending()
			}
			return
		}
	}

	switch m := msg.(type) {
	case Tick:
		s.tick(m.Now)
		return
	case NotesChanged:
		s.notesChanged(m.Paths)
		return
	case ForceQuit:
		s.running = false
		return
	}

	if s.pending != nil {
		s.resolvePending(msg)
		return
	}

	switch s.mode {
	case ModeInsert:
		s.updateInsert(msg)
	case ModeCommand:
		s.updateCommand(msg)
	case ModeSearch:
		s.updateSearch(msg)
	case ModePrompt:
		s.updatePrompt(msg)
	default:
		s.updateNormal(msg)
	}
}

// confirm asks before running an action. Deletions skip the question when
// confirmations are turned off.
func (s *State) confirm(trigger Message, text string, deletion bool, run func()) {
	if deletion && !s.opts.ConfirmDeletions {
		run()
		return
	}
	s.pending = &pending{trigger: trigger, text: text, run: run}
}

func (s *State) resolvePending(msg Message) {
	p := s.pending
	s.pending = nil
	if _, ok := msg.(Confirm); ok || reflect.TypeOf(msg) == reflect.TypeOf(p.trigger) {
		p.run()
		return
	}
	s.SetStatus("Cancelled", false)
}

func (s *State) cancelPending() {
	s.pending = nil
	s.SetStatus("Cancelled", false)
}

func (s *State) tick(now time.Time) {
	if s.status.text != "" && !now.Before(s.status.until) {
		s.status = status{}
	}
}

func (s *State) updateNormal(msg Message) {
	switch m := msg.(type) {
	case Quit:
		s.quit()
	case Save:
		s.saveAll()
	case EnterCommand:
		s.mode = ModeCommand
		s.command = s.command[:0]
	case EnterSearch:
		s.enterSearch()
	case SwitchView:
		s.switchView(m.View)
	case ToggleHelp:
		s.toggleHelp()
	case CommandSubmit:
		s.runCommand(m.Line)
	default:
		switch s.view {
		case ViewNoteList:
			s.updateNoteList(msg)
		case ViewEditor:
			s.updateEditor(msg)
		case ViewCalendar:
			s.updateCalendar(msg)
		case ViewTasks:
			s.updateTasks(msg)
		case ViewSearch:
			s.updateSearchView(msg)
		case ViewHelp:
			if _, ok := msg.(Cancel); ok {
				s.toggleHelp()
			}
		}
	}
}

func (s *State) updateInsert(msg Message) {
	b := s.buffers[s.active]
	if b == nil {
		s.mode = ModeNormal
		return
	}
	switch m := msg.(type) {
	case InsertChar:
		b.Insert(m.Char)
	case InsertText:
		b.InsertString(m.Text)
	case NewLine:
		b.Insert('\n')
	case Backspace:
		b.Backspace()
	case CursorLeft:
		b.Left()
	case CursorRight:
		b.Right()
	case CursorUp:
		b.Up()
	case CursorDown:
		b.Down()
	case CursorHome:
		b.Home()
	case CursorEnd:
		b.End()
	case Save:
		s.saveAll()
	case Cancel:
		s.mode = ModeNormal
	}
}

func (s *State) updateCommand(msg Message) {
	switch m := msg.(type) {
	case InsertChar:
		s.command = append(s.command, m.Char)
	case InsertText:
		s.command = append(s.command, []rune(m.Text)...)
	case Backspace:
		if len(s.command) == 0 {
			s.mode = ModeNormal
			return
		}
		s.command = s.command[:len(s.command)-1]
	case Cancel:
		s.mode = ModeNormal
		s.command = s.command[:0]
	case CommandSubmit:
		s.mode = ModeNormal
		s.command = s.command[:0]
		s.runCommand(m.Line)
	}
}

func (s *State) enterSearch() {
	if s.view != ViewSearch {
		s.leaveView(ViewSearch)
		s.prevView = s.view
		s.view = ViewSearch
	}
	s.mode = ModeSearch
}

func (s *State) updateSearch(msg Message) {
	switch m := msg.(type) {
	case InsertChar:
		s.setQuery(s.query + string(m.Char))
	case InsertText:
		s.setQuery(s.query + m.Text)
	case Backspace:
		if r := []rune(s.query); len(r) > 0 {
			s.setQuery(string(r[:len(r)-1]))
		}
	case MoveUp:
		s.moveNote(-1)
	case MoveDown:
		s.moveNote(1)
	case Confirm:
		s.mode = ModeNormal
		s.view = ViewNoteList
		s.focus = FocusNotes
	case Cancel:
		s.mode = ModeNormal
		s.setQuery("")
		s.view = ViewNoteList
	}
}

// updateSearchView handles Normal mode on the results screen.
func (s *State) updateSearchView(msg Message) {
	switch msg.(type) {
	case MoveUp:
		s.moveNote(-1)
	case MoveDown:
		s.moveNote(1)
	case Open:
		s.openSelected()
	case Cancel:
		s.setQuery("")
		s.view = ViewNoteList
	}
}

func (s *State) setQuery(q string) {
	s.query = q
	s.noteSel = 0
	s.notePath = ""
	s.taskSel = 0
	s.refilter()
}

func (s *State) switchView(v View) {
	if v == s.view {
		return
	}
	if v == ViewEditor {
		s.openSelected()
		return
	}
	s.leaveView(v)
	s.view = v
	if v == ViewCalendar {
		s.month = calendar.MonthOf(s.day)
	}
}

// leaveView drops the Editor's view-local state when moving elsewhere.
// Buffers, and any unsaved edits in them, are kept.
func (s *State) leaveView(next View) {
	if s.view != ViewEditor || next == ViewHelp {
		return
	}
	if s.active != "" {
		s.notePath = s.active
		s.refilter()
	}
	s.active = ""
	s.focus = FocusNotes
	if s.mode == ModeInsert {
		s.mode = ModeNormal
	}
}

func (s *State) toggleHelp() {
	if s.view == ViewHelp {
		s.view = s.prevView
		return
	}
	s.prevView = s.view
	s.view = ViewHelp
}

func (s *State) updateEditor(msg Message) {
	b := s.buffers[s.active]
	if b == nil {
		s.view = ViewNoteList
		return
	}
	switch msg.(type) {
	case EnterInsert:
		s.mode = ModeInsert
	case CursorLeft:
		b.Left()
	case CursorRight:
		b.Right()
	case CursorUp, MoveUp:
		b.Up()
	case CursorDown, MoveDown:
		b.Down()
	case CursorHome:
		b.Home()
	case CursorEnd:
		b.End()
	case Cancel:
		s.switchView(ViewNoteList)
	}
}

func (s *State) updateCalendar(msg Message) {
	switch m := msg.(type) {
	case MoveDay:
		s.day = s.day.AddDays(m.Days)
		s.month = calendar.MonthOf(s.day)
	case PrevMonth:
		s.month = s.month.Prev()
		s.day = s.month.Clamp(s.day.Day)
	case NextMonth:
		s.month = s.month.Next()
		s.day = s.month.Clamp(s.day.Day)
	case OpenDay, Open:
		s.openDay()
	}
}

// openDay opens the selected day's note, creating the daily note first when
// the day has none.
func (s *State) openDay() {
	p, ok := s.cal.ResolveDay(s.day)
	if !ok {
		p = calendar.DailyNotePath(s.day)
		if _, err := s.notes.Create(p, fmt.Sprintf("# %s\n", s.day)); err != nil {
			s.setError("Create daily note", err)
			return
		}
		s.reindex()
		s.SetStatus("Created "+p, false)
	}
	s.openNote(p)
}
