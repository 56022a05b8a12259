package app

import (
	"errors"
	"fmt"
	"strings"

	"ratanotes/internal/apperr"
	"ratanotes/internal/frontmatter"
	"ratanotes/internal/notes"
)

func (s *State) updateNoteList(msg Message) {
	switch msg.(type) {
	case MoveUp:
		s.move(-1)
	case MoveDown:
		s.move(1)
	case Open:
		s.openSelected()
	case SelectTag:
		s.selectTag()
	case ToggleFocus:
		if s.focus == FocusNotes && len(s.index.Tags()) > 0 {
			s.focus = FocusTags
		} else {
			s.focus = FocusNotes
		}
	case NewNote:
		s.startPrompt(promptNewNote, "New note title", "")
	case RenameNote:
		if n, ok := s.requireNote(); ok {
			s.startPrompt(promptRename, "Rename to", n.Path)
			s.prompt.path = n.Path
		}
	case AddTag:
		if n, ok := s.requireNote(); ok {
			s.startPrompt(promptAddTag, "Add tag", "")
			s.prompt.path = n.Path
		}
	case DeleteNote:
		if n, ok := s.requireNote(); ok {
			p := n.Path
			s.confirm(DeleteNote{}, fmt.Sprintf("Delete note %s? (y/n)", p), true, func() {
				s.deleteNote(p)
			})
		}
	case Cancel:
		if s.query != "" || s.activeTag != "" {
			s.query = ""
			s.activeTag = ""
			s.refilter()
			s.SetStatus("Filter cleared", false)
		}
	}
}

func (s *State) move(delta int) {
	if s.focus == FocusTags {
		s.tagSel = clamp(s.tagSel+delta, len(s.index.Tags()))
		return
	}
	s.moveNote(delta)
}

func (s *State) moveNote(delta int) {
	s.noteSel = clamp(s.noteSel+delta, len(s.results.Notes))
	s.syncNotePath()
}

func (s *State) selectTag() {
	tags := s.index.Tags()
	if s.tagSel >= len(tags) {
		return
	}
	tag := tags[s.tagSel]
	if s.activeTag == tag {
		s.activeTag = ""
	} else {
		s.activeTag = tag
	}
	s.focus = FocusNotes
	s.noteSel = 0
	s.notePath = ""
	s.refilter()
}

func (s *State) requireNote() (notes.Note, bool) {
	n, ok := s.selectedNote()
	if !ok {
		s.SetStatus("No note selected", true)
	}
	return n, ok
}

func (s *State) openSelected() {
	if n, ok := s.requireNote(); ok {
		s.openNote(n.Path)
	}
}

// openNote shows p in the editor, reusing an existing buffer so unsaved
// edits survive view switches.
func (s *State) openNote(p string) {
	n, ok := s.notes.Get(p)
	if !ok {
		s.setError("Open", fmt.Errorf("%s: %w", p, apperr.ErrNotFound))
		return
	}
	if _, ok := s.buffers[p]; !ok {
		s.buffers[p] = NewBuffer(n.Raw)
	}
	s.active = p
	s.notePath = p
	s.view = ViewEditor
	s.mode = ModeNormal
	s.focus = FocusNotes
}

func (s *State) createNote(title string) {
	if title == "" {
		s.SetStatus("Title is required", true)
		return
	}
	p := s.uniquePath(notes.Slug(title))
	if _, err := s.notes.Create(p, notes.NewNoteText(title)); err != nil {
		s.setError("Create note", err)
		return
	}
	s.reindex()
	s.openNote(p)
	s.mode = ModeInsert
	s.SetStatus("Created "+p, false)
}

// uniquePath appends -2, -3, ... to the stem of p until it names no known note.
func (s *State) uniquePath(p string) string {
	if !s.notes.Has(p) {
		return p
	}
	stem := strings.TrimSuffix(p, notes.Ext)
	for i := 2; ; i++ {
		c := fmt.Sprintf("%s-%d%s", stem, i, notes.Ext)
		if !s.notes.Has(c) {
			return c
		}
	}
}

func (s *State) renameNote(oldPath, newPath string) {
	if newPath == "" {
		s.SetStatus("Name is required", true)
		return
	}
	if !strings.HasSuffix(newPath, notes.Ext) {
		newPath += notes.Ext
	}
	n, err := s.notes.Rename(oldPath, newPath)
	if err != nil {
		s.setError("Rename", err)
		return
	}
	if b, ok := s.buffers[oldPath]; ok && n.Path != oldPath {
		delete(s.buffers, oldPath)
		s.buffers[n.Path] = b
	}
	if s.active == oldPath {
		s.active = n.Path
	}
	s.notePath = n.Path
	s.reindex()
	s.SetStatus("Renamed to "+n.Path, false)
}

func (s *State) addTag(p, tag string) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" || strings.ContainsAny(tag, " \t") {
		s.SetStatus("Tag must be a single word", true)
		return
	}
	if b, ok := s.buffers[p]; ok && b.Dirty() {
		s.SetStatus("Save "+p+" before tagging it", true)
		return
	}
	n, ok := s.notes.Get(p)
	if !ok {
		s.setError("Add tag", fmt.Errorf("%s: %w", p, apperr.ErrNotFound))
		return
	}
	raw := frontmatter.SetTags(n.Raw, append(n.Tags, tag))
	updated, err := s.notes.UpdateContent(p, raw)
	if err != nil {
		s.setError("Add tag", err)
		return
	}
	if b, ok := s.buffers[p]; ok {
		b.Reset(updated.Raw)
	}
	s.reindex()
	s.SetStatus(fmt.Sprintf("Tagged %s with #%s", p, tag), false)
}

func (s *State) deleteNote(p string) {
	if err := s.notes.Delete(p); err != nil {
		s.setError("Delete", err)
		return
	}
	delete(s.buffers, p)
	if s.active == p {
		s.active = ""
		s.view = ViewNoteList
		s.mode = ModeNormal
	}
	s.reindex()
	s.SetStatus("Deleted "+p, false)
}

// saveNote writes one buffer. A note removed on disk behind our back is
// recreated from the buffer.
func (s *State) saveNote(p string, b *Buffer) error {
	_, err := s.notes.UpdateContent(p, b.String())
	if errors.Is(err, apperr.ErrNotFound) {
		_, err = s.notes.Create(p, b.String())
	}
	if err != nil {
		return err
	}
	b.MarkSaved()
	return nil
}

// notesChanged reloads files edited outside the application. Buffers with
// unsaved edits win over the disk.
func (s *State) notesChanged(paths []string) {
	changed := false
	var kept []string
	for _, abs := range paths {
		p, ok := s.notes.Rel(abs)
		if !ok {
			continue
		}
		b := s.buffers[p]
		if b != nil && b.Dirty() {
			kept = append(kept, p)
			continue
		}
		c, err := s.notes.Reload(p)
		if err != nil {
			s.logger.Warn("app: reload failed", "path", p, "error", err)
		}
		if !c {
			continue
		}
		changed = true
		if n, ok := s.notes.Get(p); ok {
			if b != nil {
				b.Reset(n.Raw)
			}
			continue
		}
		delete(s.buffers, p)
		if s.active == p {
			s.active = ""
			if s.view == ViewEditor {
				s.view = ViewNoteList
				s.mode = ModeNormal
			}
			if err != nil {
				s.SetStatus(fmt.Sprintf("%s can no longer be read: %v", p, err), true)
			} else {
				s.SetStatus(p+" was removed on disk", true)
			}
		}
	}
	if changed {
		s.reindex()
	}
	if len(kept) > 0 {
		s.SetStatus(fmt.Sprintf("%s changed on disk; keeping unsaved edits", strings.Join(kept, ", ")), true)
	}
}
