// Package notes owns the canonical collection of Markdown notes and keeps it
// in step with the files under the notes directory.
//
// Paths are slash-separated and relative to the store root; they are the
// identity of a note. Every mutating operation writes through to disk before
// it updates memory, so a failed write never leaves a half-applied change.
package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"ratanotes/internal/apperr"
	"ratanotes/internal/frontmatter"
	"ratanotes/internal/fsutil"
)

const (
	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600

	// Ext is the only file extension the store manages.
	Ext = ".md"

	loadConcurrency = 8
)

// Note is one Markdown file.
type Note struct {
	Path      string
	Title     string
	Raw       string // full file contents
	Body      string // Raw without front matter and leading title heading
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Warning records a file that could not be loaded.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// Store holds all notes in memory, keyed by path.
type Store struct {
	root   string
	notes  map[string]*Note
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates the notes root if needed and returns an empty store.
// Call Load to populate it.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve notes root: %w: %w", apperr.ErrIO, err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("create notes root: %w: %w", apperr.ErrIO, err)
	}
	return &Store{
		root:   abs,
		notes:  make(map[string]*Note),
		now:    time.Now,
		logger: logger,
	}, nil
}

// SetNowFunc overrides the clock used for timestamps. Passing nil resets it
// to time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Root returns the absolute notes directory.
func (s *Store) Root() string { return s.root }

// Len returns the number of notes.
func (s *Store) Len() int { return len(s.notes) }

// Has reports whether a note exists at p.
func (s *Store) Has(p string) bool {
	clean, err := CleanPath(p)
	if err != nil {
		return false
	}
	_, ok := s.notes[clean]
	return ok
}

// Get returns a copy of the note at p.
func (s *Store) Get(p string) (Note, bool) {
	clean, err := CleanPath(p)
	if err != nil {
		return Note{}, false
	}
	n, ok := s.notes[clean]
	if !ok {
		return Note{}, false
	}
	return n.clone(), true
}

// All returns copies of every note ordered by path.
func (s *Store) All() []Note {
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns every note path in sorted order.
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.notes))
	for p := range s.notes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type loaded struct {
	path string
	note *Note
	err  error
}

// Load replaces the collection with every non-hidden .md file under the
// root. Files that cannot be read are skipped and reported as warnings; Load
// itself never fails.
func (s *Store) Load() []Warning {
	var (
		paths    []string
		warnings []Warning
	)

	walkErr := filepath.WalkDir(s.root, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			rel := s.relOrAbs(abs)
			warnings = append(warnings, Warning{Path: rel, Err: fmt.Errorf("%w: %w", apperr.ErrIO, err)})
			if d != nil && d.IsDir() && abs != s.root {
				return fs.SkipDir
			}
			return nil
		}
		if abs == s.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Ext) {
			return nil
		}
		paths = append(paths, abs)
		return nil
	})
	if walkErr != nil {
		warnings = append(warnings, Warning{Path: ".", Err: fmt.Errorf("%w: %w", apperr.ErrIO, walkErr)})
	}

	results := make([]loaded, len(paths))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, abs := range paths {
		g.Go(func() error {
			rel := s.relOrAbs(abs)
			n, err := readNote(abs, rel)
			results[i] = loaded{path: rel, note: n, err: err}
			return nil
		})
	}
	_ = g.Wait()

	notes := make(map[string]*Note, len(results))
	for _, r := range results {
		if r.err != nil {
			warnings = append(warnings, Warning{Path: r.path, Err: r.err})
			continue
		}
		notes[r.path] = r.note
	}
	s.notes = notes

	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path < warnings[j].Path })
	for _, w := range warnings {
		s.logger.Warn("notes: skipped file", slog.String("path", w.Path), slog.String("error", w.Err.Error()))
	}
	s.logger.Debug("notes: loaded", slog.Int("count", len(notes)), slog.Int("warnings", len(warnings)))
	return warnings
}

// Create writes a new note and adds it to the store. It fails with
// ErrConflict if p is already taken, in memory or on disk.
func (s *Store) Create(p, body string) (Note, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return Note{}, err
	}
	if _, ok := s.notes[clean]; ok {
		return Note{}, fmt.Errorf("create %s: %w", clean, apperr.ErrConflict)
	}

	if err := fsutil.CreateExclusive(s.abs(clean), []byte(body), filePerm, dirPerm); err != nil {
		if errors.Is(err, fsutil.ErrExists) {
			return Note{}, fmt.Errorf("create %s: %w", clean, apperr.ErrConflict)
		}
		return Note{}, fmt.Errorf("create %s: %w: %w", clean, apperr.ErrIO, err)
	}

	now := s.now()
	n := newNote(clean, body, now, now)
	s.notes[clean] = n
	s.logger.Debug("notes: created", slog.String("path", clean))
	return n.clone(), nil
}

// Rename moves the note at oldPath to newPath. The file is moved first; the
// in-memory key changes only after the move succeeded.
func (s *Store) Rename(oldPath, newPath string) (Note, error) {
	from, err := CleanPath(oldPath)
	if err != nil {
		return Note{}, err
	}
	to, err := CleanPath(newPath)
	if err != nil {
		return Note{}, err
	}
	n, ok := s.notes[from]
	if !ok {
		return Note{}, fmt.Errorf("rename %s: %w", from, apperr.ErrNotFound)
	}
	if from == to {
		return n.clone(), nil
	}
	if _, taken := s.notes[to]; taken {
		return Note{}, fmt.Errorf("rename to %s: %w", to, apperr.ErrConflict)
	}

	if err := fsutil.MoveNoClobber(s.abs(from), s.abs(to), dirPerm); err != nil {
		if errors.Is(err, fsutil.ErrExists) {
			return Note{}, fmt.Errorf("rename to %s: %w", to, apperr.ErrConflict)
		}
		if errors.Is(err, fs.ErrNotExist) {
			return Note{}, fmt.Errorf("rename %s: %w", from, apperr.ErrNotFound)
		}
		return Note{}, fmt.Errorf("rename %s: %w: %w", from, apperr.ErrIO, err)
	}

	moved := newNote(to, n.Raw, n.CreatedAt, n.UpdatedAt)
	delete(s.notes, from)
	s.notes[to] = moved
	s.logger.Debug("notes: renamed", slog.String("from", from), slog.String("to", to))
	return moved.clone(), nil
}

// UpdateContent replaces the raw text of the note at p and writes it through.
func (s *Store) UpdateContent(p, raw string) (Note, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return Note{}, err
	}
	n, ok := s.notes[clean]
	if !ok {
		return Note{}, fmt.Errorf("update %s: %w", clean, apperr.ErrNotFound)
	}

	if err := fsutil.WriteFileAtomic(s.abs(clean), []byte(raw), filePerm, dirPerm); err != nil {
		s.logger.Error("notes: write failed", slog.String("path", clean), slog.String("error", err.Error()))
		return Note{}, fmt.Errorf("update %s: %w: %w", clean, apperr.ErrIO, err)
	}

	updated := newNote(clean, raw, n.CreatedAt, s.now())
	s.notes[clean] = updated
	return updated.clone(), nil
}

// Delete removes the note file and its entry.
func (s *Store) Delete(p string) error {
	clean, err := CleanPath(p)
	if err != nil {
		return err
	}
	if _, ok := s.notes[clean]; !ok {
		return fmt.Errorf("delete %s: %w", clean, apperr.ErrNotFound)
	}
	if err := os.Remove(s.abs(clean)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w: %w", clean, apperr.ErrIO, err)
	}
	delete(s.notes, clean)
	s.logger.Debug("notes: deleted", slog.String("path", clean))
	return nil
}

// Reload re-reads a single file after it changed outside the application.
// A vanished file is dropped from the store, and so is one that is no longer
// valid UTF-8 (with the error returned). changed reports whether the
// in-memory collection was modified.
func (s *Store) Reload(p string) (changed bool, err error) {
	clean, err := CleanPath(p)
	if err != nil {
		return false, err
	}

	fresh, err := readNote(s.abs(clean), clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.Forget(clean), nil
		}
		if errors.Is(err, apperr.ErrParseWarning) {
			return s.Forget(clean), err
		}
		return false, err
	}

	if old, ok := s.notes[clean]; ok {
		if old.Raw == fresh.Raw {
			return false, nil
		}
		fresh.CreatedAt = old.CreatedAt
	}
	s.notes[clean] = fresh
	return true, nil
}

// Forget drops p from memory without touching the filesystem.
func (s *Store) Forget(p string) bool {
	clean, err := CleanPath(p)
	if err != nil {
		return false
	}
	if _, ok := s.notes[clean]; !ok {
		return false
	}
	delete(s.notes, clean)
	return true
}

// Rel converts an absolute filesystem path into a store path. ok is false
// for paths outside the root or that the store would not manage.
func (s *Store) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", false
	}
	clean, err := CleanPath(filepath.ToSlash(rel))
	if err != nil {
		return "", false
	}
	return clean, true
}

func (s *Store) abs(clean string) string {
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

func (s *Store) relOrAbs(abs string) string {
	if rel, err := filepath.Rel(s.root, abs); err == nil {
		return filepath.ToSlash(rel)
	}
	return abs
}

// CleanPath normalizes a store path and rejects anything that is absolute,
// escapes the root, is hidden, or is not a .md file.
func CleanPath(p string) (string, error) {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if p == "" {
		return "", fmt.Errorf("empty note path: %w", apperr.ErrInvalid)
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("note path %q must be relative: %w", p, apperr.ErrInvalid)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("note path %q escapes the notes directory: %w", p, apperr.ErrInvalid)
	}
	for _, part := range strings.Split(clean, "/") {
		if strings.HasPrefix(part, ".") {
			return "", fmt.Errorf("note path %q is hidden: %w", p, apperr.ErrInvalid)
		}
	}
	if !strings.HasSuffix(clean, Ext) || clean == Ext {
		return "", fmt.Errorf("note path %q must end in %s: %w", p, Ext, apperr.ErrInvalid)
	}
	return clean, nil
}

func readNote(abs, rel string) (*Note, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read: %w: %w", apperr.ErrIO, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read: not valid UTF-8: %w", apperr.ErrParseWarning)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat: %w: %w", apperr.ErrIO, err)
	}
	// No portable birth time; the first observed modification stands in.
	return newNote(rel, string(data), info.ModTime(), info.ModTime()), nil
}

func newNote(p, raw string, created, updated time.Time) *Note {
	r := frontmatter.Parse(raw, p)
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		Path:      p,
		Title:     r.Title,
		Raw:       raw,
		Body:      r.Body,
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func (n *Note) clone() Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}
