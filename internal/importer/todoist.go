package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ratanotes/internal/tasks"
)

// TodoistImporter handles importing from Todoist CSV exports.
type TodoistImporter struct{}

// Name returns the importer name.
func (t *TodoistImporter) Name() string {
	return "todoist"
}

// Preview parses a Todoist CSV backup. INDENT levels become sub-tasks.
func (t *TodoistImporter) Preview(reader io.Reader) ([]tasks.Task, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM (common in some exports)
		}
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"TYPE", "CONTENT"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var items []indented
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) == 0 || strings.ToLower(field(record, "TYPE")) != "task" {
			continue
		}

		text := field(record, "CONTENT")
		if text == "" {
			continue
		}

		task := tasks.Task{
			Description: text,
			Project:     field(record, "PROJECT"),
			Priority:    mapTodoistPriority(field(record, "PRIORITY")),
		}
		if due := parseTodoistDate(field(record, "DATE")); due != nil {
			d := tasks.NewDate(*due)
			task.DueDate = &d
		}

		indent, err := strconv.Atoi(field(record, "INDENT"))
		if err != nil || indent < 1 {
			indent = 1
		}
		items = append(items, indented{task: task, indent: indent})
	}

	return nest(items), nil
}

// mapTodoistPriority converts Todoist priority to ours.
// Todoist: 1 = urgent (highest), 2 = high, 3 = medium, 4 = normal (lowest).
// Anything else falls back to the default, medium.
func mapTodoistPriority(priority string) tasks.Priority {
	switch strings.TrimSpace(priority) {
	case "1", "2":
		return tasks.PriorityHigh
	case "4":
		return tasks.PriorityLow
	default:
		return tasks.PriorityMedium
	}
}

// parseTodoistDate parses various Todoist date formats.
func parseTodoistDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	formats := []string{
		"2006-01-02",
		"Jan 2 2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"01/02/2006",
		"02/01/2006",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return &t
		}
	}

	return nil
}
