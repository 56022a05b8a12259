// Package search filters notes and tasks by a free-text query.
//
// The index is a snapshot of lowercased fields rebuilt after every mutation;
// queries are a linear scan over it.
package search

import (
	"slices"
	"sort"
	"strings"

	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

type noteEntry struct {
	note  notes.Note
	title string
	body  string
	tags  []string
}

type taskEntry struct {
	row         tasks.Row
	description string
	project     string
}

// Index is an immutable view over one generation of store contents.
type Index struct {
	notes []noteEntry // ordered: UpdatedAt desc, Path asc
	tasks []taskEntry // store pre-order
	tags  []string
}

// Result holds the matches of one query.
type Result struct {
	Notes []notes.Note
	Tasks []tasks.Row
}

// Build indexes the given notes and flattened task rows.
func Build(ns []notes.Note, rows []tasks.Row) *Index {
	idx := &Index{
		notes: make([]noteEntry, 0, len(ns)),
		tasks: make([]taskEntry, 0, len(rows)),
	}

	seen := map[string]struct{}{}
	for _, n := range ns {
		e := noteEntry{
			note:  n,
			title: strings.ToLower(n.Title),
			body:  strings.ToLower(n.Body),
			tags:  make([]string, len(n.Tags)),
		}
		for i, t := range n.Tags {
			e.tags[i] = strings.ToLower(t)
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				idx.tags = append(idx.tags, t)
			}
		}
		idx.notes = append(idx.notes, e)
	}
	sort.SliceStable(idx.notes, func(i, j int) bool {
		return lessNote(idx.notes[i].note, idx.notes[j].note)
	})
	sort.Strings(idx.tags)

	for _, r := range rows {
		idx.tasks = append(idx.tasks, taskEntry{
			row:         r,
			description: strings.ToLower(r.Task.Description),
			project:     strings.ToLower(r.Task.Project),
		})
	}
	return idx
}

func lessNote(a, b notes.Note) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.Path < b.Path
}

// Query returns every note and task matching all whitespace-separated tokens
// of q. An empty query matches everything.
func (idx *Index) Query(q string) Result {
	return idx.Filter(q, "")
}

// Filter is Query restricted to notes carrying tag (case-insensitive). An
// empty tag applies no restriction. Tasks are not tagged, so a tag filter
// leaves the task matches to the query alone.
func (idx *Index) Filter(q, tag string) Result {
	tokens := parse(q)
	tag = strings.ToLower(strings.TrimSpace(tag))

	res := Result{Notes: []notes.Note{}, Tasks: []tasks.Row{}}
	for _, e := range idx.notes {
		if tag != "" && !slices.Contains(e.tags, tag) {
			continue
		}
		if e.matches(tokens) {
			res.Notes = append(res.Notes, e.note)
		}
	}
	for _, e := range idx.tasks {
		if e.matches(tokens) {
			res.Tasks = append(res.Tasks, e.row)
		}
	}
	return res
}

// Tags returns the sorted set of tags across all notes.
func (idx *Index) Tags() []string {
	return append([]string(nil), idx.tags...)
}

type token struct {
	text    string
	tagOnly bool
}

func parse(q string) []token {
	var out []token
	for _, f := range strings.Fields(strings.ToLower(q)) {
		if strings.HasPrefix(f, "#") && len(f) > 1 {
			out = append(out, token{text: f[1:], tagOnly: true})
			continue
		}
		out = append(out, token{text: f})
	}
	return out
}

func (e noteEntry) matches(tokens []token) bool {
	for _, t := range tokens {
		if slices.Contains(e.tags, t.text) {
			continue
		}
		if t.tagOnly {
			return false
		}
		if !strings.Contains(e.title, t.text) && !strings.Contains(e.body, t.text) {
			return false
		}
	}
	return true
}

func (e taskEntry) matches(tokens []token) bool {
	for _, t := range tokens {
		if e.project != "" && e.project == t.text {
			continue
		}
		if t.tagOnly {
			return false
		}
		if !strings.Contains(e.description, t.text) {
			return false
		}
	}
	return true
}
