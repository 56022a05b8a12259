package app

import "strings"

func (s *State) startPrompt(kind promptKind, label, initial string) {
	s.prompt = &prompt{kind: kind, label: label, input: []rune(initial)}
	s.mode = ModePrompt
}

func (s *State) updatePrompt(msg Message) {
	p := s.prompt
	if p == nil {
		s.mode = ModeNormal
		return
	}
	switch m := msg.(type) {
	case InsertChar:
		p.input = append(p.input, m.Char)
	case InsertText:
		p.input = append(p.input, []rune(m.Text)...)
	case Backspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case Cancel:
		s.prompt = nil
		s.mode = ModeNormal
	case Confirm:
		s.prompt = nil
		s.mode = ModeNormal
		s.submitPrompt(p, strings.TrimSpace(string(p.input)))
	}
}

func (s *State) submitPrompt(p *prompt, text string) {
	switch p.kind {
	case promptNewNote:
		s.createNote(text)
	case promptRename:
		s.renameNote(p.path, text)
	case promptAddTag:
		s.addTag(p.path, text)
	case promptNewTask:
		s.addTask(0, text)
	case promptNewSubTask:
		s.addTask(p.taskID, text)
	case promptEditTask:
		s.editTask(p.taskID, text)
	}
}
