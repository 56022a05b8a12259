// Package backup provides backup and restore functionality.
// It manages timestamped copies of the notes tree, tasks.json and config.yaml.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"ratanotes/internal/config"
	"ratanotes/internal/fsutil"
	"ratanotes/internal/tasks"
)

// Version constants for the backup format.
const (
	ManifestVersion = "2.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

const (
	filePerm = 0o600
	dirPerm  = 0o700
)

// Manager handles backup and restore operations.
type Manager struct {
	paths      config.Paths
	backupDir  string // Path to backups directory (e.g., ~/.ratanotes/backups)
	appVersion string // Application version for manifest
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"` // slash-separated, relative to the root
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2025-12-15_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // notes, tasks
}

// NewManager creates a new backup manager for the layout in paths.
func NewManager(paths config.Paths, appVersion string) *Manager {
	return &Manager{
		paths:      paths,
		backupDir:  filepath.Join(paths.Root, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Dir returns the directory holding the backups.
func (m *Manager) Dir() string { return m.backupDir }

// Create copies every note, tasks.json and config.yaml into a new backup.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now, name, backupPath, err := m.reserve()
	if err != nil {
		return "", err
	}

	files, err := m.dataFiles()
	if err != nil {
		_ = os.RemoveAll(backupPath)
		return "", err
	}

	stats := map[string]int{"notes": 0, "tasks": 0}
	for _, rel := range files {
		src := filepath.Join(m.paths.Root, filepath.FromSlash(rel))
		if err := copyFileAtomic(src, filepath.Join(backupPath, filepath.FromSlash(rel))); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", rel, err)
		}
		switch {
		case strings.HasSuffix(rel, ".md"):
			stats["notes"]++
		case rel == config.TasksFileName:
			if n, err := countTasks(src); err == nil {
				stats["tasks"] = n
			}
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      files,
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserve creates an empty backup directory named after the current time,
// moving forward a millisecond at a time if the name is taken.
func (m *Manager) reserve() (time.Time, string, string, error) {
	now := m.now()
	for range 1000 {
		name := formatBackupName(now)
		backupPath := filepath.Join(m.backupDir, name)
		err := os.Mkdir(backupPath, dirPerm)
		if err == nil {
			return now, name, backupPath, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return time.Time{}, "", "", fmt.Errorf("failed to create backup: %w", err)
		}
		now = now.Add(time.Millisecond)
	}
	return time.Time{}, "", "", fmt.Errorf("failed to create backup: no free name near %s", formatBackupName(now))
}

// dataFiles lists the files to back up, relative to the root. Hidden files and
// directories under the notes tree are skipped.
func (m *Manager) dataFiles() ([]string, error) {
	var files []string
	for _, p := range []string{m.paths.Config, m.paths.Tasks} {
		if fsutil.Exists(p) {
			files = append(files, filepath.Base(p))
		}
	}

	err := filepath.WalkDir(m.paths.Notes, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if p != m.paths.Notes && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(m.paths.Root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore copies the files of backup name back into the root, after taking
// a safety backup of the current state. Notes created since the backup are
// left in place.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		return fmt.Errorf("backup %s has no readable manifest: %w", name, err)
	}

	safetyName, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, rel := range manifest.Files {
		if !validRelPath(rel) {
			return fmt.Errorf("backup %s lists invalid path %q", name, rel)
		}
		src := filepath.Join(backupPath, filepath.FromSlash(rel))
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFileAtomic(src, filepath.Join(m.paths.Root, filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", rel, safetyName, err)
		}
	}

	if err := validateTasks(m.paths.Tasks); err != nil {
		return fmt.Errorf("restored %s is invalid (safety backup: %s): %w", config.TasksFileName, safetyName, err)
	}

	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}

	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}

	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, backup := range backups[keepCount:] {
		if err := m.Delete(backup.Name); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// validRelPath rejects manifest entries that would escape the root.
func validRelPath(rel string) bool {
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, `\`) {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, data, filePerm, dirPerm)
}

// writeJSON writes a value as JSON to a file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, filePerm, dirPerm)
}

// readJSON reads JSON from a file into a value.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func readTasks(path string) ([]tasks.Task, error) {
	var list []tasks.Task
	if err := readJSON(path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// validateTasks checks that the task file decodes. A missing file is fine.
func validateTasks(path string) error {
	_, err := readTasks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// countTasks counts every task in the file, sub-tasks included.
func countTasks(path string) (int, error) {
	list, err := readTasks(path)
	if err != nil {
		return 0, err
	}
	var count func([]tasks.Task) int
	count = func(l []tasks.Task) int {
		n := len(l)
		for _, t := range l {
			n += count(t.SubTasks)
		}
		return n
	}
	return count(list), nil
}

func formatBackupName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format("2006-01-02_150405"), t.Nanosecond()/1e6)
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.Parse("2006-01-02_150405", name[:17])
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}

	return time.Parse("2006-01-02_150405", name)
}
