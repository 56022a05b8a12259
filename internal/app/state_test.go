package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ratanotes/internal/calendar"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

var testNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	root  string
	tasks string
	state *State
}

// newFixture writes files under a fresh notes root, loads both stores and
// builds a State with a fixed clock. All files share one mtime so notes are
// listed by path.
func newFixture(t *testing.T, files map[string]string, mutate ...func(*Options)) *fixture {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "notes")
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, testNow, testNow); err != nil {
			t.Fatal(err)
		}
	}

	ns, err := notes.NewStore(root, nil)
	if err != nil {
		t.Fatalf("notes.NewStore() error = %v", err)
	}
	ns.SetNowFunc(func() time.Time { return testNow })
	if warnings := ns.Load(); len(warnings) > 0 {
		t.Fatalf("Load() warnings = %v", warnings)
	}

	taskPath := filepath.Join(dir, tasks.FileName)
	ts := tasks.NewStore(taskPath, nil)
	ts.SetNowFunc(func() time.Time { return testNow })
	if err := ts.Load(); err != nil {
		t.Fatalf("tasks.Load() error = %v", err)
	}

	opts := DefaultOptions()
	opts.Now = func() time.Time { return testNow }
	for _, m := range mutate {
		m(&opts)
	}
	return &fixture{root: root, tasks: taskPath, state: New(ns, ts, opts)}
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(f.path(rel))
	return err == nil
}

// press feeds each key to the state. Single printable characters become
// Char presses; anything else is treated as a named key.
func press(s *State, keys ...string) {
	for _, k := range keys {
		if r := []rune(k); len(r) == 1 {
			s.Update(Char(r[0]))
			continue
		}
		s.Update(Key(k))
	}
}

func typeText(s *State, text string) {
	for _, r := range text {
		s.Update(Char(r))
	}
}

func notePaths(snap Snapshot) []string {
	out := make([]string, len(snap.Notes))
	for i, n := range snap.Notes {
		out[i] = n.Path
	}
	return out
}

func TestInsertEditsStayInMemoryUntilWrite(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "hello\n"})
	s := f.state

	press(s, "enter")
	if s.View() != ViewEditor {
		t.Fatalf("View() = %v, want Editor", s.View())
	}
	press(s, "i")
	if s.Mode() != ModeInsert {
		t.Fatalf("Mode() = %v, want INSERT", s.Mode())
	}
	press(s, "x")

	if got := f.read(t, "a.md"); got != "hello\n" {
		t.Errorf("file after insert = %q, want unchanged", got)
	}
	if !s.Snapshot().Dirty {
		t.Error("Snapshot().Dirty = false after insert")
	}

	press(s, "esc")
	if s.Mode() != ModeNormal {
		t.Fatalf("Mode() = %v, want NORMAL", s.Mode())
	}
	press(s, ":", "w", "enter")

	if got := f.read(t, "a.md"); got != "hello\nx" {
		t.Errorf("file after :w = %q, want %q", got, "hello\nx")
	}
	snap := s.Snapshot()
	if snap.Dirty || snap.Editor == nil || snap.Editor.Dirty {
		t.Errorf("still dirty after :w: %+v", snap.Editor)
	}
	if snap.StatusIsErr {
		t.Errorf("status = %q, want success", snap.Status)
	}
}

func TestWriteWithNothingDirtyIsNoOp(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "hello\n"})
	s := f.state

	press(s, ":", "w", "enter")

	snap := s.Snapshot()
	if snap.Status != "Nothing to save" || snap.StatusIsErr {
		t.Errorf("status = %q (err %v), want success no-op", snap.Status, snap.StatusIsErr)
	}
	if got := f.read(t, "a.md"); got != "hello\n" {
		t.Errorf("file = %q, want unchanged", got)
	}
}

func TestDeleteNeedsTwoConfirmingMessages(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		deleted bool
	}{
		{"repeat", []string{"d", "d"}, true},
		{"confirm key", []string{"d", "y"}, true},
		{"enter confirms", []string{"d", "enter"}, true},
		{"cancel key", []string{"d", "esc"}, false},
		{"other message cancels", []string{"d", "j", "y"}, false},
		{"single press", []string{"d"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
			press(f.state, tt.keys...)
			if got := !f.exists("a.md"); got != tt.deleted {
				t.Errorf("a.md deleted = %v, want %v", got, tt.deleted)
			}
			if !f.exists("b.md") {
				t.Error("b.md was deleted")
			}
		})
	}
}

func TestPendingConfirmationSurvivesTickAndWatcher(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n"})
	s := f.state

	press(s, "d")
	if s.Snapshot().Confirm == "" {
		t.Fatal("no pending confirmation after d")
	}
	s.Update(Tick{Now: testNow.Add(time.Second)})
	s.Update(NotesChanged{Paths: []string{f.path("a.md")}})
	if !strings.Contains(s.Snapshot().Confirm, "a.md") {
		t.Fatalf("confirmation lost: %q", s.Snapshot().Confirm)
	}
	s.Update(Confirm{})
	if f.exists("a.md") {
		t.Error("a.md still exists after Confirm")
	}
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n"}, func(o *Options) {
		o.ConfirmDeletions = false
	})
	press(f.state, "d")
	if f.exists("a.md") {
		t.Error("a.md still exists")
	}
}

func TestRename(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	s := f.state

	press(s, "r")
	if p := s.Snapshot().Prompt; p == nil || p.Input != "a.md" {
		t.Fatalf("prompt = %+v, want prefilled a.md", p)
	}
	press(s, "backspace", "backspace", "backspace", "backspace")
	typeText(s, "c")
	press(s, "enter")

	if f.exists("a.md") || f.read(t, "c.md") != "# A\n" {
		t.Error("a.md was not moved to c.md")
	}
	if got := notePaths(s.Snapshot()); strings.Join(got, ",") != "b.md,c.md" {
		t.Errorf("notes = %v", got)
	}
}

func TestRenameConflictLeavesBothNotes(t *testing.T) {
	var logged bytes.Buffer
	f := newFixture(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"}, func(o *Options) {
		o.Logger = slog.New(slog.NewTextHandler(&logged, nil))
	})
	s := f.state

	press(s, "r", "backspace", "backspace", "backspace", "backspace")
	typeText(s, "b.md")
	press(s, "enter")

	snap := s.Snapshot()
	if !snap.StatusIsErr || !strings.Contains(snap.Status, "already exists") {
		t.Errorf("status = %q, want conflict error", snap.Status)
	}
	if f.read(t, "a.md") != "# A\n" || f.read(t, "b.md") != "# B\n" {
		t.Error("files changed after failed rename")
	}
	if got := notePaths(snap); strings.Join(got, ",") != "a.md,b.md" {
		t.Errorf("notes = %v", got)
	}
	if !strings.Contains(logged.String(), "kind=conflict") {
		t.Errorf("log = %q, want kind=conflict", logged.String())
	}
}

func TestNewNotePrompt(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, "a")
	typeText(s, "My Note")
	press(s, "enter")

	if got := f.read(t, "my-note.md"); got != "# My Note\n" {
		t.Errorf("my-note.md = %q", got)
	}
	if s.View() != ViewEditor || s.Mode() != ModeInsert {
		t.Errorf("view/mode = %v/%v, want Editor/INSERT", s.View(), s.Mode())
	}

	press(s, "esc", "n", "a")
	typeText(s, "My Note")
	press(s, "enter")
	if !f.exists("my-note-2.md") {
		t.Error("second note with the same title was not suffixed")
	}
}

func TestPromptEscapeCancels(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, "a")
	typeText(s, "draft")
	press(s, "esc")

	if s.Mode() != ModeNormal || s.Snapshot().Prompt != nil {
		t.Errorf("prompt still open: mode %v", s.Mode())
	}
	if s.Snapshot().NoteCount != 0 {
		t.Error("note created after cancelled prompt")
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.md": "# Alpha\nfoo\n",
		"b.md": "# Beta\nbar\n",
	})
	s := f.state

	press(s, "/")
	if s.Mode() != ModeSearch || s.View() != ViewSearch {
		t.Fatalf("mode/view = %v/%v", s.Mode(), s.View())
	}
	typeText(s, "foo")
	if got := notePaths(s.Snapshot()); strings.Join(got, ",") != "a.md" {
		t.Errorf("results for foo = %v", got)
	}

	press(s, "enter")
	snap := s.Snapshot()
	if snap.View != ViewNoteList || snap.Mode != ModeNormal || snap.Query != "foo" {
		t.Errorf("after enter: view %v mode %v query %q", snap.View, snap.Mode, snap.Query)
	}
	if len(snap.Notes) != 1 {
		t.Errorf("filtered list has %d notes, want 1", len(snap.Notes))
	}

	press(s, "esc")
	if got := s.Snapshot(); got.Query != "" || len(got.Notes) != 2 {
		t.Errorf("filter not cleared: %q %d", got.Query, len(got.Notes))
	}
}

func TestSearchEscapeClearsQuery(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# Alpha\n", "b.md": "# Beta\n"})
	s := f.state

	press(s, "/")
	typeText(s, "zzz")
	if n := len(s.Snapshot().Notes); n != 0 {
		t.Fatalf("results = %d, want 0", n)
	}
	press(s, "esc")

	snap := s.Snapshot()
	if snap.Mode != ModeNormal || snap.Query != "" || len(snap.Notes) != 2 {
		t.Errorf("after esc: mode %v query %q notes %d", snap.Mode, snap.Query, len(snap.Notes))
	}
}

func TestTagFilterAndAddTag(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.md": "# A\n",
		"b.md": "---\ntags: [work]\n---\n# B\n",
	})
	s := f.state

	press(s, "t")
	typeText(s, "idea")
	press(s, "enter")

	if got := f.read(t, "a.md"); !strings.Contains(got, "idea") || !strings.Contains(got, "# A") {
		t.Errorf("a.md = %q, want tag added and body kept", got)
	}
	if tags := s.Snapshot().Tags; strings.Join(tags, ",") != "idea,work" {
		t.Errorf("tags = %v", tags)
	}

	press(s, "tab", "j", "enter")
	snap := s.Snapshot()
	if snap.ActiveTag != "work" || strings.Join(notePaths(snap), ",") != "b.md" {
		t.Errorf("tag filter = %q %v", snap.ActiveTag, notePaths(snap))
	}
}

func TestAddTagRefusesDirtyBuffer(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n"})
	s := f.state

	press(s, "enter", "i", "x", "esc", "n", "t")
	typeText(s, "idea")
	press(s, "enter")

	if !s.Snapshot().StatusIsErr {
		t.Error("expected an error status")
	}
	if got := f.read(t, "a.md"); got != "# A\n" {
		t.Errorf("a.md = %q, want unchanged", got)
	}
}

func TestLeavingEditorKeepsBuffer(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "hello"})
	s := f.state

	press(s, "enter", "i", "!", "esc", "c")
	snap := s.Snapshot()
	if snap.View != ViewCalendar || snap.Editor != nil {
		t.Fatalf("view %v editor %+v", snap.View, snap.Editor)
	}
	if !s.HasUnsaved() {
		t.Fatal("buffer dropped on view switch")
	}

	press(s, "n", "enter")
	snap = s.Snapshot()
	if snap.Editor == nil || snap.Editor.Lines[0] != "hello!" || !snap.Editor.Dirty {
		t.Errorf("editor = %+v", snap.Editor)
	}
}

func TestQuit(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		f := newFixture(t, map[string]string{"a.md": "x"})
		press(f.state, "q")
		if f.state.Running() {
			t.Error("still running")
		}
	})

	t.Run("unsaved asks first", func(t *testing.T) {
		f := newFixture(t, map[string]string{"a.md": "x"})
		s := f.state
		press(s, "enter", "i", "y", "esc", "q")
		if !s.Running() || !strings.Contains(s.Snapshot().Confirm, "Unsaved") {
			t.Fatalf("running %v confirm %q", s.Running(), s.Snapshot().Confirm)
		}
		press(s, "y")
		if s.Running() {
			t.Error("still running after confirm")
		}
		if got := f.read(t, "a.md"); got != "x" {
			t.Errorf("a.md = %q, quit must not save", got)
		}
	})

	t.Run("write and quit", func(t *testing.T) {
		f := newFixture(t, map[string]string{"a.md": "x"})
		s := f.state
		press(s, "enter", "i", "y", "esc", ":", "w", "q", "enter")
		if s.Running() {
			t.Error("still running after :wq")
		}
		if got := f.read(t, "a.md"); got != "xy" {
			t.Errorf("a.md = %q, want xy", got)
		}
	})

	t.Run("force", func(t *testing.T) {
		f := newFixture(t, map[string]string{"a.md": "x"})
		s := f.state
		press(s, "enter", "i", "y", "ctrl+c")
		if s.Running() {
			t.Error("still running after ctrl+c")
		}
	})
}

func TestUnknownCommandSuggests(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, ":")
	typeText(s, "clendar")
	press(s, "enter")

	snap := s.Snapshot()
	if !snap.StatusIsErr || !strings.Contains(snap.Status, ":calendar") {
		t.Errorf("status = %q", snap.Status)
	}
	if snap.Mode != ModeNormal {
		t.Errorf("mode = %v", snap.Mode)
	}
}

func TestCommandBackspaceOnEmptyLeavesCommandMode(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, ":", "w", "backspace")
	if s.Mode() != ModeCommand {
		t.Fatalf("mode = %v, want COMMAND", s.Mode())
	}
	press(s, "backspace")
	if s.Mode() != ModeNormal {
		t.Errorf("mode = %v, want NORMAL", s.Mode())
	}
}

func TestTasks(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, "T")
	if s.View() != ViewTasks {
		t.Fatalf("view = %v", s.View())
	}
	press(s, "a")
	typeText(s, "buy milk +home !high")
	press(s, "enter")

	snap := s.Snapshot()
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(snap.Tasks))
	}
	got := snap.Tasks[0].Task
	if got.Description != "buy milk" || got.Project != "home" || got.Priority != tasks.PriorityHigh {
		t.Errorf("task = %+v", got)
	}

	press(s, " ", "p", "s")
	typeText(s, "oat")
	press(s, "enter")

	reloaded := tasks.NewStore(f.tasks, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	all := reloaded.All()
	if len(all) != 1 || !all[0].Completed || all[0].Priority != tasks.PriorityLow || len(all[0].SubTasks) != 1 {
		t.Fatalf("persisted = %+v", all)
	}

	rows := s.Snapshot().Tasks
	if len(rows) != 2 || rows[1].Depth != 1 || s.Snapshot().TaskSel != 1 {
		t.Errorf("rows = %+v sel %d", rows, s.Snapshot().TaskSel)
	}

	press(s, "k", "d", "d")
	if n := len(s.Snapshot().Tasks); n != 0 {
		t.Errorf("tasks after cascade delete = %d", n)
	}
}

func TestEditTask(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, "T", "a")
	typeText(s, "call bob due:2024-01-20")
	press(s, "enter", "e")
	if p := s.Snapshot().Prompt; p == nil || p.Input != "call bob !medium due:2024-01-20" {
		t.Fatalf("prompt = %+v", p)
	}
	for range "due:2024-01-20" {
		press(s, "backspace")
	}
	typeText(s, "+work")
	press(s, "enter")

	got := s.Snapshot().Tasks[0].Task
	if got.Project != "work" || got.DueDate != nil || got.Description != "call bob" {
		t.Errorf("edited task = %+v", got)
	}
}

func TestEditTaskUnchangedKeepsLiteralWords(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	added, err := s.tasks.Add(tasks.Task{Description: "call +1 555 about !urgent thing due:soon", Project: "home"})
	if err != nil {
		t.Fatal(err)
	}
	s.reindex()

	press(s, "T", "e")
	want := `call \+1 555 about \!urgent thing \due:soon +home !medium`
	if p := s.Snapshot().Prompt; p == nil || p.Input != want {
		t.Fatalf("prompt = %+v, want input %q", p, want)
	}
	press(s, "enter")

	got, _ := s.tasks.Get(added.ID)
	if got.Description != added.Description || got.Project != "home" || got.Priority != tasks.PriorityMedium {
		t.Errorf("task after unchanged edit = %+v", got)
	}
	if st := s.Snapshot().Status; st != "Task unchanged" {
		t.Errorf("status = %q", st)
	}

	press(s, "e")
	typeText(s, " !high")
	press(s, "enter")
	got, _ = s.tasks.Get(added.ID)
	if got.Description != added.Description || got.Priority != tasks.PriorityHigh {
		t.Errorf("task after edit = %+v", got)
	}
}

func TestCalendar(t *testing.T) {
	f := newFixture(t, map[string]string{"journal/2024-01-16.md": "# sixteenth\n"})
	s := f.state

	press(s, "c")
	snap := s.Snapshot()
	want := calendar.Date{Year: 2024, Month: time.January, Day: 15}
	if snap.Calendar.Selected != want || snap.Calendar.Path != "" {
		t.Fatalf("calendar = %+v", snap.Calendar)
	}

	press(s, "l")
	if p := s.Snapshot().Calendar.Path; p != "journal/2024-01-16.md" {
		t.Errorf("Path for 16th = %q", p)
	}
	press(s, "enter")
	if snap := s.Snapshot(); snap.Editor == nil || snap.Editor.Path != "journal/2024-01-16.md" {
		t.Fatalf("opened %+v", snap.Editor)
	}

	press(s, "c", "h", "enter")
	if got := f.read(t, "daily-notes/2024-01-15.md"); got != "# 2024-01-15\n" {
		t.Errorf("daily note = %q", got)
	}

	press(s, "c", "L")
	if m := s.Snapshot().Calendar.Month; m.Month != time.February {
		t.Errorf("month after L = %v", m)
	}
	if f.state.Snapshot().NoteCount != 2 {
		t.Error("month navigation changed the note store")
	}
}

func TestMoveDayCrossesMonth(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	press(s, "c")
	s.Update(MoveDay{Days: 17})
	snap := s.Snapshot()
	if snap.Calendar.Month.Month != time.February || snap.Calendar.Selected.Day != 1 {
		t.Errorf("calendar = %+v", snap.Calendar)
	}
}

func TestNotesChanged(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "old\n", "b.md": "keep\n"})
	s := f.state

	press(s, "enter")
	if err := os.WriteFile(f.path("a.md"), []byte("new\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s.Update(NotesChanged{Paths: []string{f.path("a.md")}})
	if got := s.Snapshot().Editor.Lines[0]; got != "new" {
		t.Errorf("clean buffer not refreshed: %q", got)
	}

	press(s, "i", "!", "esc")
	if err := os.WriteFile(f.path("a.md"), []byte("newer\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s.Update(NotesChanged{Paths: []string{f.path("a.md")}})
	snap := s.Snapshot()
	if !snap.Editor.Dirty || !strings.Contains(snap.Status, "keeping unsaved") {
		t.Errorf("dirty buffer overwritten: %+v status %q", snap.Editor, snap.Status)
	}

	if err := os.Remove(f.path("b.md")); err != nil {
		t.Fatal(err)
	}
	s.Update(NotesChanged{Paths: []string{f.path("b.md"), "/elsewhere/c.md"}})
	if n := s.Snapshot().NoteCount; n != 1 {
		t.Errorf("NoteCount = %d, want 1", n)
	}
}

func TestNotesChangedToInvalidUTF8(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# Cafe\n", "b.md": "keep\n"})
	s := f.state

	press(s, "enter")
	latin1 := "# Caf\xe9\n"
	if err := os.WriteFile(f.path("a.md"), []byte(latin1), 0o600); err != nil {
		t.Fatal(err)
	}
	s.Update(NotesChanged{Paths: []string{f.path("a.md")}})

	snap := s.Snapshot()
	if s.View() != ViewNoteList || !strings.Contains(snap.Status, "can no longer be read") {
		t.Errorf("view = %v, status = %q", s.View(), snap.Status)
	}
	if snap.NoteCount != 1 || s.HasUnsaved() {
		t.Errorf("NoteCount = %d, HasUnsaved = %v", snap.NoteCount, s.HasUnsaved())
	}

	s.Update(CommandSubmit{Line: "w"})
	if got := f.read(t, "a.md"); got != latin1 {
		t.Errorf(":w rewrote an unreadable note: %q", got)
	}
}

func TestStatusExpires(t *testing.T) {
	f := newFixture(t, nil)
	s := f.state

	s.SetStatus("hello", false)
	s.Update(Tick{Now: testNow.Add(time.Second)})
	if s.Snapshot().Status != "hello" {
		t.Fatal("status cleared too early")
	}
	s.Update(Tick{Now: testNow.Add(10 * time.Second)})
	if s.Snapshot().Status != "" {
		t.Error("status not cleared")
	}
}

func TestUnknownMessageIsNoOp(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "x"})
	s := f.state

	before := s.Snapshot()
	s.Update(42)
	s.Update(struct{ Foo string }{"bar"})
	press(s, "ctrl+z")
	after := s.Snapshot()

	if before.View != after.View || before.Mode != after.Mode || before.NoteSel != after.NoteSel || after.Status != "" {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestHelpToggle(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "x"})
	s := f.state

	press(s, "enter", "?")
	if s.View() != ViewHelp {
		t.Fatalf("view = %v", s.View())
	}
	press(s, "esc")
	if s.View() != ViewEditor || s.Snapshot().Editor == nil {
		t.Errorf("help did not return to the editor: %v", s.View())
	}
}
