package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"ratanotes/internal/tasks"
)

// TaskwarriorImporter handles importing from Taskwarrior JSON exports.
type TaskwarriorImporter struct{}

// taskwarriorTask represents a task in Taskwarrior's JSON format.
type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
	Entry       string `json:"entry"`
	End         string `json:"end"`
	UUID        string `json:"uuid"`
}

// Name returns the importer name.
func (t *TaskwarriorImporter) Name() string {
	return "taskwarrior"
}

// Preview parses a Taskwarrior export. Both the JSON array format and
// newline-delimited JSON (NDJSON) are supported.
func (t *TaskwarriorImporter) Preview(reader io.Reader) ([]tasks.Task, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	r := io.MultiReader(bytes.NewReader(prefix), br)
	if first == '[' {
		return parseTaskwarriorJSONArray(r)
	}
	return parseTaskwarriorNDJSON(r)
}

const maxTaskwarriorNDJSONLineBytes = 4 << 20 // 4MiB

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		if !isSpaceByte(b) {
			return prefix, b, nil
		}
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func parseTaskwarriorJSONArray(r io.Reader) ([]tasks.Task, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	var out []tasks.Task
	var idx int
	for dec.More() {
		idx++
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", idx, err)
		}
		if task, ok := previewFromTaskwarrior(tw); ok {
			out = append(out, task)
		}
	}

	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	return out, nil
}

func parseTaskwarriorNDJSON(r io.Reader) ([]tasks.Task, error) {
	br := bufio.NewReader(r)
	var out []tasks.Task
	var lineNo int
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > maxTaskwarriorNDJSONLineBytes {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo+1, maxTaskwarriorNDJSONLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read NDJSON: %w", err)
		}
		if len(line) == 0 && err == io.EOF {
			break
		}

		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}

		var tw taskwarriorTask
		if uerr := json.Unmarshal(line, &tw); uerr != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
		}
		if task, ok := previewFromTaskwarrior(tw); ok {
			out = append(out, task)
		}

		if err == io.EOF {
			break
		}
	}

	if lineNo == 0 {
		return nil, fmt.Errorf("empty input")
	}

	return out, nil
}

func previewFromTaskwarrior(tw taskwarriorTask) (tasks.Task, bool) {
	// Skip deleted tasks
	if tw.Status == "deleted" {
		return tasks.Task{}, false
	}

	text := strings.TrimSpace(tw.Description)
	if text == "" {
		return tasks.Task{}, false
	}

	task := tasks.Task{
		Description: text,
		Project:     strings.TrimSpace(tw.Project),
		Priority:    mapTaskwarriorPriority(tw.Priority),
		Completed:   tw.Status == "completed",
	}

	if due := parseTaskwarriorDate(tw.Due); due != nil {
		d := tasks.NewDate(*due)
		task.DueDate = &d
	}
	if entry := parseTaskwarriorDate(tw.Entry); entry != nil {
		created := entry.UTC()
		task.CreatedAt = &created
	}

	return task, true
}

// mapTaskwarriorPriority converts Taskwarrior priority to our system.
// Taskwarrior: H = high, M = medium, L = low; unset means medium.
func mapTaskwarriorPriority(priority string) tasks.Priority {
	switch strings.ToUpper(strings.TrimSpace(priority)) {
	case "H":
		return tasks.PriorityHigh
	case "L":
		return tasks.PriorityLow
	default:
		return tasks.PriorityMedium
	}
}

// parseTaskwarriorDate parses Taskwarrior's date format.
// Format: 20140928T211124Z (ISO 8601 basic format)
func parseTaskwarriorDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	// Taskwarrior format: 20140928T211124Z
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			// Convert to local time
			localTime := t.Local()
			return &localTime
		}
	}

	return nil
}
