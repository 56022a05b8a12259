package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// commands lists the ":" commands in suggestion order.
var commands = []string{"w", "q", "q!", "wq", "x", "help", "notes", "calendar", "tasks"}

func (s *State) runCommand(line string) {
	cmd := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	switch cmd {
	case "":
	case "w":
		s.saveAll()
	case "q":
		s.quit()
	case "q!":
		s.running = false
	case "wq", "x":
		if s.saveAll() {
			s.running = false
		}
	case "help":
		if s.view != ViewHelp {
			s.toggleHelp()
		}
	case "notes":
		s.switchView(ViewNoteList)
	case "calendar":
		s.switchView(ViewCalendar)
	case "tasks":
		s.switchView(ViewTasks)
	default:
		if m := fuzzy.Find(cmd, commands); len(m) > 0 {
			s.SetStatus(fmt.Sprintf("Unknown command %q, did you mean :%s?", cmd, m[0].Str), true)
			return
		}
		s.SetStatus(fmt.Sprintf("Unknown command %q", cmd), true)
	}
}

// saveAll writes every dirty buffer and the task list. It reports whether
// everything was persisted.
func (s *State) saveAll() bool {
	paths := s.dirtyPaths()
	if len(paths) == 0 && !s.tasks.Dirty() {
		s.SetStatus("Nothing to save", false)
		return true
	}
	sort.Strings(paths)

	var failed []string
	var firstErr error
	saved := 0
	for _, p := range paths {
		if err := s.saveNote(p, s.buffers[p]); err != nil {
			s.logger.Error("app: save failed", "path", p, "error", err)
			failed = append(failed, p)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	if s.tasks.Dirty() {
		if err := s.tasks.Save(); err != nil {
			s.logger.Error("app: save failed", "path", s.tasks.Path(), "error", err)
			failed = append(failed, "tasks")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.reindex()

	if firstErr != nil {
		s.SetStatus(fmt.Sprintf("Save failed for %s: %v", strings.Join(failed, ", "), firstErr), true)
		return false
	}
	switch saved {
	case 0:
		s.SetStatus("Tasks saved", false)
	case 1:
		s.SetStatus("Saved "+paths[0], false)
	default:
		s.SetStatus(fmt.Sprintf("Saved %d notes", saved), false)
	}
	return true
}

func (s *State) quit() {
	if !s.HasUnsaved() {
		s.running = false
		return
	}
	s.confirm(Quit{}, "Unsaved changes. Quit without saving? (y/n)", false, func() {
		s.running = false
	})
}
