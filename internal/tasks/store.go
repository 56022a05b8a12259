// Package tasks persists the task tree in a single JSON file.
//
// The whole file is rewritten on every save through a temp file and rename,
// so a failed save leaves the previous file untouched. Sub-tasks are owned by
// their parent and removed with it.
package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ratanotes/internal/apperr"
	"ratanotes/internal/fsutil"
)

const (
	dataDirPerm  os.FileMode = 0o700
	dataFilePerm os.FileMode = 0o600

	// FileName is the task file inside the config root.
	FileName = "tasks.json"
)

// Store holds the task tree in memory.
type Store struct {
	path   string
	tasks  []Task
	nextID int64
	dirty  bool
	now    func() time.Time
	logger *slog.Logger
}

// NewStore returns an empty store backed by path. Call Load to read it.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		path:   path,
		tasks:  []Task{},
		nextID: 1,
		now:    time.Now,
		logger: logger,
	}
}

// SetNowFunc overrides the clock used for created_at. Passing nil resets it
// to time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Dirty reports whether the tree changed since the last successful Load or Save.
func (s *Store) Dirty() bool { return s.dirty }

// Load replaces the tree with the file contents. A missing file is created
// empty. An empty or corrupt file is recovered from tasks.json.bak when
// possible, otherwise reset; in both cases the store is usable and the
// returned error wraps ErrParseWarning.
func (s *Store) Load() error {
	var list []Task
	err := s.loadJSONWithRecovery(&list)
	if err != nil && !errors.Is(err, apperr.ErrParseWarning) {
		return err
	}

	if list == nil {
		list = []Task{}
	}
	var maxID int64
	for i := range list {
		normalizeTree(&list[i], &maxID)
	}
	s.tasks = list
	s.nextID = maxID + 1
	s.dirty = false

	if err != nil {
		s.logger.Warn("tasks: recovered task file", slog.String("path", s.path), slog.String("error", err.Error()))
	}
	return err
}

// Save rewrites the whole file. On failure the store stays dirty and the
// previous file is untouched.
func (s *Store) Save() error {
	if err := s.writeJSONAtomic(s.tasks); err != nil {
		s.logger.Error("tasks: save failed", slog.String("path", s.path), slog.String("error", err.Error()))
		return err
	}
	s.dirty = false
	return nil
}

func (s *Store) writeJSONAtomic(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", FileName, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(s.path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(s.path, data, dataFilePerm, dataDirPerm); err != nil {
		return fmt.Errorf("write %s: %w: %w", FileName, apperr.ErrIO, err)
	}
	return nil
}

func (s *Store) loadJSONWithRecovery(v *[]Task) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			*v = []Task{}
			return s.writeJSONAtomic(*v)
		}
		return fmt.Errorf("read %s: %w: %w", FileName, apperr.ErrIO, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(v, fmt.Errorf("%s is empty", FileName))
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	return s.recoverCorruptJSON(v, fmt.Errorf("parse %s: %w", FileName, err))
}

func (s *Store) recoverCorruptJSON(v *[]Task, cause error) error {
	corruptPath := fmt.Sprintf("%s.corrupt.%s", s.path, s.now().Format("20060102-150405"))

	// Try backup first.
	bakData, bakErr := os.ReadFile(s.path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		var recovered []Task
		if err := json.Unmarshal(bakData, &recovered); err == nil {
			*v = recovered
			_ = os.Rename(s.path, corruptPath)
			_ = s.writeJSONAtomic(recovered)
			return fmt.Errorf("%w: %s (recovered from %s.bak)", apperr.ErrParseWarning, cause.Error(), FileName)
		}
	}

	// No usable backup: preserve the broken file (best effort) and reset.
	*v = []Task{}
	_ = os.Rename(s.path, corruptPath)
	_ = s.writeJSONAtomic(*v)
	return fmt.Errorf("%w: %s (reset; original moved to %s)", apperr.ErrParseWarning, cause.Error(), filepath.Base(corruptPath))
}

// Add validates t, assigns it (and any sub-tasks it carries) fresh ids and
// appends it at the top level.
func (s *Store) Add(t Task) (Task, error) {
	return s.insert(nil, t)
}

// AddSub appends t as the last sub-task of parentID.
func (s *Store) AddSub(parentID int64, t Task) (Task, error) {
	parent := find(s.tasks, parentID)
	if parent == nil {
		return Task{}, fmt.Errorf("task %d: %w", parentID, apperr.ErrNotFound)
	}
	return s.insert(parent, t)
}

func (s *Store) insert(parent *Task, t Task) (Task, error) {
	t.normalize()
	if err := t.Validate(); err != nil {
		return Task{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	s.assign(&t)

	if parent == nil {
		s.tasks = append(s.tasks, t)
	} else {
		parent.SubTasks = append(parent.SubTasks, t)
	}
	s.dirty = true
	return t.clone(), nil
}

func (s *Store) assign(t *Task) {
	t.ID = s.nextID
	s.nextID++
	if t.CreatedAt == nil {
		now := s.now().UTC().Truncate(time.Second)
		t.CreatedAt = &now
	}
	t.normalize()
	for i := range t.SubTasks {
		s.assign(&t.SubTasks[i])
	}
}

// Edit applies the non-nil fields of p to task id.
func (s *Store) Edit(id int64, p Patch) (Task, error) {
	t := find(s.tasks, id)
	if t == nil {
		return Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}

	updated := *t
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.Project != nil {
		updated.Project = *p.Project
	}
	if p.Priority != nil {
		updated.Priority = *p.Priority
	}
	if p.DueDate != nil {
		updated.DueDate = *p.DueDate
	}
	updated.normalize()
	if err := updated.Validate(); err != nil {
		return Task{}, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}

	*t = updated
	s.dirty = true
	return t.clone(), nil
}

// ToggleComplete flips the completed flag of task id.
func (s *Store) ToggleComplete(id int64) (Task, error) {
	t := find(s.tasks, id)
	if t == nil {
		return Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}
	t.Completed = !t.Completed
	s.dirty = true
	return t.clone(), nil
}

// CyclePriority moves task id to the next priority.
func (s *Store) CyclePriority(id int64) (Task, error) {
	t := find(s.tasks, id)
	if t == nil {
		return Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}
	t.Priority = t.Priority.Next()
	s.dirty = true
	return t.clone(), nil
}

// Delete removes task id together with all of its descendants and returns
// the removed subtree.
func (s *Store) Delete(id int64) (Task, error) {
	list, removed, ok := remove(s.tasks, id)
	if !ok {
		return Task{}, fmt.Errorf("task %d: %w", id, apperr.ErrNotFound)
	}
	s.tasks = list
	s.dirty = true
	return removed, nil
}

// Get returns a copy of task id, searching the whole tree.
func (s *Store) Get(id int64) (Task, bool) {
	t := find(s.tasks, id)
	if t == nil {
		return Task{}, false
	}
	return t.clone(), true
}

// All returns a deep copy of the top-level tasks.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Len counts every task in the tree.
func (s *Store) Len() int {
	return len(s.Flatten())
}

// Flatten lists the tree in pre-order with each task's nesting depth. Row
// tasks carry no sub-tasks.
func (s *Store) Flatten() []Row {
	var rows []Row
	var walk func(list []Task, depth int)
	walk = func(list []Task, depth int) {
		for _, t := range list {
			row := t.clone()
			row.SubTasks = []Task{}
			rows = append(rows, Row{Task: row, Depth: depth})
			walk(t.SubTasks, depth+1)
		}
	}
	walk(s.tasks, 0)
	return rows
}

func find(list []Task, id int64) *Task {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
		if t := find(list[i].SubTasks, id); t != nil {
			return t
		}
	}
	return nil
}

func remove(list []Task, id int64) ([]Task, Task, bool) {
	for i := range list {
		if list[i].ID == id {
			removed := list[i]
			out := make([]Task, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, removed, true
		}
		if subs, removed, ok := remove(list[i].SubTasks, id); ok {
			list[i].SubTasks = subs
			return list, removed, true
		}
	}
	return list, Task{}, false
}

func normalizeTree(t *Task, maxID *int64) {
	t.normalize()
	if t.ID > *maxID {
		*maxID = t.ID
	}
	for i := range t.SubTasks {
		normalizeTree(&t.SubTasks[i], maxID)
	}
}
