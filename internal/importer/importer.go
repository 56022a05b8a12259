// Package importer migrates tasks from other productivity tools such as
// Todoist and Taskwarrior into the task store.
package importer

import (
	"fmt"
	"io"

	"ratanotes/internal/tasks"
)

// Result contains statistics about an import operation.
type Result struct {
	Imported int      // Tasks added, sub-tasks included
	Errors   []string // Tasks the store rejected
}

// Importer parses one export format into a task tree.
type Importer interface {
	// Preview reads tasks from the reader without touching any store.
	Preview(reader io.Reader) ([]tasks.Task, error)

	// Name returns the importer name (e.g., "todoist", "taskwarrior").
	Name() string
}

// GetImporter returns the appropriate importer for the given format.
func GetImporter(format string) Importer {
	switch format {
	case "todoist":
		return &TodoistImporter{}
	case "taskwarrior":
		return &TaskwarriorImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// Import parses reader with imp and appends every top-level task, with its
// sub-tasks, to store. The store is left dirty; saving is up to the caller.
func Import(imp Importer, reader io.Reader, store *tasks.Store) (*Result, error) {
	parsed, err := imp.Preview(reader)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, t := range parsed {
		added, err := store.Add(t)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", t.Description, err))
			continue
		}
		result.Imported += Count([]tasks.Task{added})
	}
	return result, nil
}

// Count returns the number of tasks in list, sub-tasks included.
func Count(list []tasks.Task) int {
	n := len(list)
	for _, t := range list {
		n += Count(t.SubTasks)
	}
	return n
}

type indented struct {
	task   tasks.Task
	indent int
}

// nest turns a flat outline into a tree: every item owns the items after it
// that are indented deeper, up to the next item at its own depth or above.
func nest(items []indented) []tasks.Task {
	var out []tasks.Task
	for i := 0; i < len(items); {
		j := i + 1
		for j < len(items) && items[j].indent > items[i].indent {
			j++
		}
		t := items[i].task
		t.SubTasks = nest(items[i+1 : j])
		out = append(out, t)
		i = j
	}
	return out
}
