package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"ratanotes/internal/app"
	"ratanotes/internal/config"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

var testNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestState loads a State over a temporary notes root seeded with files.
func createTestState(t *testing.T, files map[string]string) *app.State {
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
	ns.Load()

	ts := tasks.NewStore(filepath.Join(dir, tasks.FileName), nil)
	ts.SetNowFunc(func() time.Time { return testNow })
	if err := ts.Load(); err != nil {
		t.Fatalf("tasks.Load() error = %v", err)
	}

	opts := app.DefaultOptions()
	opts.Now = func() time.Time { return testNow }
	return app.New(ns, ts, opts)
}

// createTestApp wraps a seeded state in the UI model at a fixed size.
func createTestApp(t *testing.T, files map[string]string, width, height int) *App {
	t.Helper()
	setupTest(t)
	a := NewApp(createTestState(t, files), createTestStyles(), &AppConfig{
		NarrowLayoutThreshold: 80,
		Now:                   func() time.Time { return testNow },
	})
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return a
}
