package ui

import (
	"strings"
	"testing"

	"ratanotes/internal/app"
	"ratanotes/internal/config"
)

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), app.DefaultKeyMap())
	help.SetSize(100, 50)

	output := help.View()

	sections := []string{
		"Keyboard Shortcuts",
		"Global",
		"Navigation",
		"Notes",
		"Tasks",
		"Calendar",
		"Confirm",
		"Insert / Command",
	}
	for _, section := range sections {
		if !strings.Contains(output, section) {
			t.Errorf("Help overlay missing section: %s", section)
		}
	}

	for _, binding := range []string{"ctrl+s", "space", "add tag", "next month"} {
		if !strings.Contains(output, binding) {
			t.Errorf("Help overlay missing %q", binding)
		}
	}
}

func TestHelpOverlay_CustomKeys(t *testing.T) {
	setupTest(t)

	cfg := config.Default().Keys
	cfg.AddTag = "#"
	help := NewHelpOverlay(createTestStyles(), app.NewKeyMap(&cfg))
	help.SetSize(100, 50)

	output := help.View()
	if !strings.Contains(output, "#") {
		t.Errorf("custom key not listed:\n%s", output)
	}
}

func TestHelpOverlay_SmallTerminal(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), app.DefaultKeyMap())
	help.SetSize(30, 20)

	if out := help.View(); !strings.Contains(out, "Keyboard") {
		t.Errorf("small overlay lost its title:\n%s", out)
	}
}

func TestKeysLabel(t *testing.T) {
	keys := app.DefaultKeyMap()
	if got := keysLabel(keys.Toggle); got != "space / x" {
		t.Errorf("keysLabel(Toggle) = %q, want %q", got, "space / x")
	}
	if got := keysLabel(keys.Up); got != "k / up" {
		t.Errorf("keysLabel(Up) = %q, want %q", got, "k / up")
	}
}
