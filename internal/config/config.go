// Package config handles configuration loading and defaults for ratanotes.
// Configuration lives in config.yaml inside the data root (typically
// ~/.config/ratanotes/config.yaml) next to the notes directory and tasks.json.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"ratanotes/internal/fsutil"
)

const (
	// FileName is the configuration file inside the root.
	FileName = "config.yaml"
	// LogFileName is the slog output inside the root.
	LogFileName = "ratanotes.log"
	// NotesDir is the notes directory inside the root.
	NotesDir = "notes"
	// DailyNotesDir is the daily notes directory inside NotesDir.
	DailyNotesDir = "daily-notes"
	// TasksFileName is the task file inside the root.
	TasksFileName = "tasks.json"

	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

// Config represents the application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Watch configures detection of edits made outside the app
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts for Normal mode.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q", "j,down", "ctrl+s"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`     // default: "q"
	Help     string `yaml:"help,omitempty"`     // default: "?"
	Command  string `yaml:"command,omitempty"`  // default: ":"
	Search   string `yaml:"search,omitempty"`   // default: "/"
	Notes    string `yaml:"notes,omitempty"`    // default: "n"
	Calendar string `yaml:"calendar,omitempty"` // default: "c"
	Tasks    string `yaml:"tasks,omitempty"`    // default: "T"
	Save     string `yaml:"save,omitempty"`     // default: "ctrl+s"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Open   string `yaml:"open,omitempty"`   // default: "enter"
	Insert string `yaml:"insert,omitempty"` // default: "i"
	Focus  string `yaml:"focus,omitempty"`  // default: "tab"

	// Item keys
	Add      string `yaml:"add,omitempty"`      // default: "a"
	Rename   string `yaml:"rename,omitempty"`   // default: "r"
	Delete   string `yaml:"delete,omitempty"`   // default: "d"
	AddTag   string `yaml:"add_tag,omitempty"`  // default: "t"
	Toggle   string `yaml:"toggle,omitempty"`   // default: "space,x"
	SubTask  string `yaml:"sub_task,omitempty"` // default: "s"
	Priority string `yaml:"priority,omitempty"` // default: "p"
	Edit     string `yaml:"edit,omitempty"`     // default: "e"

	// Calendar keys
	PrevDay   string `yaml:"prev_day,omitempty"`   // default: "h,left"
	NextDay   string `yaml:"next_day,omitempty"`   // default: "l,right"
	PrevMonth string `yaml:"prev_month,omitempty"` // default: "H"
	NextMonth string `yaml:"next_month,omitempty"` // default: "L"

	// Confirmation keys
	Confirm string `yaml:"confirm,omitempty"` // default: "y,enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "n,esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions asks before deleting notes and tasks
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// StatusSeconds is how long informational status messages stay visible
	StatusSeconds int `yaml:"status_seconds,omitempty"` // default: 5

	// NarrowLayoutThreshold is the terminal width below which the tag pane is hidden
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80
}

// WatchConfig controls the filesystem watcher.
type WatchConfig struct {
	// Enabled reloads notes edited by other programs
	Enabled bool `yaml:"enabled,omitempty"` // default: true
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			StatusSeconds:         5,
			NarrowLayoutThreshold: 80,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks value ranges after merging.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Theme),
		validation.Field(&c.UX),
	)
}

// Validate checks that every color is a hex value.
func (t ThemeConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Primary, validation.Match(hexColor)),
		validation.Field(&t.Accent, validation.Match(hexColor)),
		validation.Field(&t.Muted, validation.Match(hexColor)),
		validation.Field(&t.Background, validation.Match(hexColor)),
		validation.Field(&t.Text, validation.Match(hexColor)),
	)
}

// Validate checks the numeric UX settings.
func (u UXConfig) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.StatusSeconds, validation.Min(1), validation.Max(600)),
		validation.Field(&u.NarrowLayoutThreshold, validation.Min(20), validation.Max(1000)),
	)
}

// SlogLevel converts LogLevel for the log handler.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// DefaultRoot returns ~/.config/ratanotes, honoring XDG_CONFIG_HOME.
func DefaultRoot() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ratanotes")
	}
	home, err := homedir.Dir()
	if err != nil {
		return ".ratanotes"
	}
	return filepath.Join(home, ".config", "ratanotes")
}

// ExpandRoot resolves a user-supplied root, expanding a leading ~. An empty
// root selects DefaultRoot.
func ExpandRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return DefaultRoot(), nil
	}
	expanded, err := homedir.Expand(root)
	if err != nil {
		return "", fmt.Errorf("expand root %q: %w", root, err)
	}
	return filepath.Clean(expanded), nil
}

// Paths are the fixed locations under a root.
type Paths struct {
	Root       string
	Config     string
	Log        string
	Notes      string
	DailyNotes string
	Tasks      string
}

// PathsFor lays out root.
func PathsFor(root string) Paths {
	notes := filepath.Join(root, NotesDir)
	return Paths{
		Root:       root,
		Config:     filepath.Join(root, FileName),
		Log:        filepath.Join(root, LogFileName),
		Notes:      notes,
		DailyNotes: filepath.Join(notes, DailyNotesDir),
		Tasks:      filepath.Join(root, TasksFileName),
	}
}

// EnsureLayout creates the root, notes and daily-notes directories.
func (p Paths) EnsureLayout() error {
	for _, dir := range []string{p.Root, p.Notes, p.DailyNotes} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads root/config.yaml, merging with defaults.
// If no config file exists, returns default configuration.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := PathsFor(root).Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Parse YAML and merge with defaults
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	// Merge user config with defaults (presence-aware for booleans)
	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.LogLevel != "" {
		c.LogLevel = strings.ToLower(other.LogLevel)
	}

	// Theme merging
	mergeString(&c.Theme.Primary, other.Theme.Primary)
	mergeString(&c.Theme.Accent, other.Theme.Accent)
	mergeString(&c.Theme.Muted, other.Theme.Muted)
	mergeString(&c.Theme.Background, other.Theme.Background)
	mergeString(&c.Theme.Text, other.Theme.Text)

	// Keys merging
	k, o := &c.Keys, &other.Keys
	for _, f := range []struct{ dst, src *string }{
		{&k.Quit, &o.Quit}, {&k.Help, &o.Help}, {&k.Command, &o.Command}, {&k.Search, &o.Search},
		{&k.Notes, &o.Notes}, {&k.Calendar, &o.Calendar}, {&k.Tasks, &o.Tasks}, {&k.Save, &o.Save},
		{&k.Up, &o.Up}, {&k.Down, &o.Down}, {&k.Open, &o.Open}, {&k.Insert, &o.Insert}, {&k.Focus, &o.Focus},
		{&k.Add, &o.Add}, {&k.Rename, &o.Rename}, {&k.Delete, &o.Delete}, {&k.AddTag, &o.AddTag},
		{&k.Toggle, &o.Toggle}, {&k.SubTask, &o.SubTask}, {&k.Priority, &o.Priority}, {&k.Edit, &o.Edit},
		{&k.PrevDay, &o.PrevDay}, {&k.NextDay, &o.NextDay}, {&k.PrevMonth, &o.PrevMonth}, {&k.NextMonth, &o.NextMonth},
		{&k.Confirm, &o.Confirm}, {&k.Cancel, &o.Cancel},
	} {
		mergeString(f.dst, *f.src)
	}

	// UX ints (presence-aware in mergeFromYAML)
	if other.UX.StatusSeconds > 0 {
		c.UX.StatusSeconds = other.UX.StatusSeconds
	}
	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	// First apply all non-empty string-ish merges.
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	// Now re-apply booleans only when present in YAML.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "watch", "enabled") {
		c.Watch.Enabled = other.Watch.Enabled
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to root/config.yaml.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	return fsutil.WriteFileAtomic(PathsFor(root).Config, data, filePerm, dirPerm)
}
