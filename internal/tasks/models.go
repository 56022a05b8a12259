package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Priority represents task priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities: high > medium > low > unknown.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Next returns the priority after p in the low → medium → high cycle.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority accepts any casing and the one-letter forms l, m and h.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority %q: must be low, medium, or high", s)
	}
}

// UnmarshalJSON accepts "Low" as well as "low".
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*p = ""
		return nil
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// DateLayout is the on-disk format of due dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Older files may carry a full timestamp.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single todo item with owned sub-tasks.
type Task struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Project     string     `json:"project,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *Date      `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	SubTasks    []Task     `json:"sub_tasks"`
}

const (
	maxDescriptionLen = 200
	maxProjectLen     = 60
)

// Validate checks the user-editable fields.
func (t Task) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Description, validation.Required, validation.RuneLength(1, maxDescriptionLen)),
		validation.Field(&t.Project, validation.RuneLength(0, maxProjectLen)),
		validation.Field(&t.Priority, validation.Required, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
	)
}

// Patch carries optional field changes for Edit. Nil fields are left alone.
type Patch struct {
	Description *string
	Project     *string
	Priority    *Priority
	DueDate     **Date
}

// Row is one line of the flattened task tree.
type Row struct {
	Task  Task
	Depth int
}

// ParseInput reads quick-add text of the form
//
//	buy milk +home !high due:2024-01-20
//
// where +project, !priority and due:date are optional and may appear anywhere.
// A word starting with a backslash is kept in the description without it, so
// `\+1` reads as "+1".
func ParseInput(text string) (Task, error) {
	t := Task{Priority: PriorityMedium}
	var words []string
	for _, w := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(w, `\`) && len(w) > 1:
			words = append(words, w[1:])
		case strings.HasPrefix(w, "+") && len(w) > 1:
			t.Project = w[1:]
		case strings.HasPrefix(w, "!") && len(w) > 1:
			p, err := ParsePriority(w[1:])
			if err != nil {
				return Task{}, err
			}
			t.Priority = p
		case strings.HasPrefix(w, "due:"):
			d, err := ParseDate(strings.TrimPrefix(w, "due:"))
			if err != nil {
				return Task{}, err
			}
			t.DueDate = &d
		default:
			words = append(words, w)
		}
	}
	t.Description = strings.Join(words, " ")
	return t, nil
}

// FormatInput renders t in the syntax ParseInput reads. Description words
// that would be taken for a field are escaped.
func FormatInput(t Task) string {
	var parts []string
	for _, w := range strings.Fields(t.Description) {
		if isFieldWord(w) || (strings.HasPrefix(w, `\`) && len(w) > 1) {
			w = `\` + w
		}
		parts = append(parts, w)
	}
	if t.Project != "" {
		parts = append(parts, "+"+t.Project)
	}
	priority := t.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	parts = append(parts, "!"+string(priority))
	if t.DueDate != nil {
		parts = append(parts, "due:"+t.DueDate.String())
	}
	return strings.Join(parts, " ")
}

func isFieldWord(w string) bool {
	return (strings.HasPrefix(w, "+") || strings.HasPrefix(w, "!")) && len(w) > 1 ||
		strings.HasPrefix(w, "due:")
}

// normalize trims the text fields and fills defaults.
func (t *Task) normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Project = strings.TrimSpace(t.Project)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.SubTasks == nil {
		t.SubTasks = []Task{}
	}
}

func (t Task) clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CreatedAt != nil {
		ts := *t.CreatedAt
		c.CreatedAt = &ts
	}
	c.SubTasks = make([]Task, len(t.SubTasks))
	for i, sub := range t.SubTasks {
		c.SubTasks[i] = sub.clone()
	}
	return c
}
