package app

import (
	"fmt"

	"ratanotes/internal/tasks"
)

func (s *State) updateTasks(msg Message) {
	switch msg.(type) {
	case MoveUp:
		s.taskSel = clamp(s.taskSel-1, len(s.results.Tasks))
	case MoveDown:
		s.taskSel = clamp(s.taskSel+1, len(s.results.Tasks))
	case NewTask:
		s.startPrompt(promptNewTask, "New task (+project !priority due:YYYY-MM-DD)", "")
	case NewSubTask:
		if r, ok := s.requireTask(); ok {
			s.startPrompt(promptNewSubTask, "Sub-task of "+r.Task.Description, "")
			s.prompt.taskID = r.Task.ID
		}
	case EditTask:
		if r, ok := s.requireTask(); ok {
			s.startPrompt(promptEditTask, "Edit task", tasks.FormatInput(r.Task))
			s.prompt.taskID = r.Task.ID
		}
	case ToggleTask:
		if r, ok := s.requireTask(); ok {
			t, err := s.tasks.ToggleComplete(r.Task.ID)
			s.afterTaskChange(t.ID, err, "")
		}
	case CyclePriority:
		if r, ok := s.requireTask(); ok {
			t, err := s.tasks.CyclePriority(r.Task.ID)
			s.afterTaskChange(t.ID, err, "Priority "+string(t.Priority))
		}
	case DeleteTask:
		if r, ok := s.requireTask(); ok {
			id := r.Task.ID
			text := fmt.Sprintf("Delete task %q? (y/n)", r.Task.Description)
			if n := countTasks(r.Task.SubTasks); n > 0 {
				text = fmt.Sprintf("Delete task %q and %d sub-task(s)? (y/n)", r.Task.Description, n)
			}
			s.confirm(DeleteTask{}, text, true, func() {
				_, err := s.tasks.Delete(id)
				s.afterTaskChange(0, err, "Task deleted")
			})
		}
	}
}

func (s *State) requireTask() (tasks.Row, bool) {
	r, ok := s.selectedTask()
	if !ok {
		s.SetStatus("No task selected", true)
		return r, false
	}
	// Rows carry no children; fetch the full subtree.
	if t, found := s.tasks.Get(r.Task.ID); found {
		r.Task = t
	}
	return r, true
}

func (s *State) addTask(parentID int64, text string) {
	t, err := tasks.ParseInput(text)
	if err != nil {
		s.setError("Add task", err)
		return
	}
	if parentID != 0 {
		t, err = s.tasks.AddSub(parentID, t)
	} else {
		t, err = s.tasks.Add(t)
	}
	s.afterTaskChange(t.ID, err, "Task added")
}

func (s *State) editTask(id int64, text string) {
	if cur, ok := s.tasks.Get(id); ok && text == tasks.FormatInput(cur) {
		s.SetStatus("Task unchanged", false)
		return
	}
	parsed, err := tasks.ParseInput(text)
	if err != nil {
		s.setError("Edit task", err)
		return
	}
	due := parsed.DueDate
	t, err := s.tasks.Edit(id, tasks.Patch{
		Description: &parsed.Description,
		Project:     &parsed.Project,
		Priority:    &parsed.Priority,
		DueDate:     &due,
	})
	s.afterTaskChange(t.ID, err, "Task updated")
}

// afterTaskChange persists the task list after a successful mutation and
// moves the cursor to id when it is non-zero.
func (s *State) afterTaskChange(id int64, err error, done string) {
	if err != nil {
		s.setError("Task", err)
		return
	}
	saveErr := s.tasks.Save()
	s.reindex()
	if id != 0 {
		for i, r := range s.results.Tasks {
			if r.Task.ID == id {
				s.taskSel = i
				break
			}
		}
	}
	if saveErr != nil {
		s.setError("Tasks not saved (retry with :w)", saveErr)
		return
	}
	if done != "" {
		s.SetStatus(done, false)
	}
}

func countTasks(list []tasks.Task) int {
	n := len(list)
	for _, t := range list {
		n += countTasks(t.SubTasks)
	}
	return n
}
