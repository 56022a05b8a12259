// Package reports provides daily and weekly agenda reports over notes and tasks.
package reports

import (
	"time"
)

// NoteRef identifies a note in a report.
type NoteRef struct {
	Path  string   `json:"path"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// TaskRef is a flattened task in a report. Parent is the description of the
// task it sits under, if any.
type TaskRef struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Project     string `json:"project,omitempty"`
	Priority    string `json:"priority"`
	Due         string `json:"due,omitempty"`
	Completed   bool   `json:"completed"`
	Parent      string `json:"parent,omitempty"`
}

// DailyReport contains the agenda for a single day.
type DailyReport struct {
	Date        string      `json:"date"`
	DailyNote   *NoteRef    `json:"daily_note,omitempty"`
	NotesEdited []NoteRef   `json:"notes_edited"`
	Tasks       TaskSummary `json:"tasks"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// TaskSummary contains task statistics relative to a day.
type TaskSummary struct {
	DueToday       []TaskRef      `json:"due_today"`
	Overdue        []TaskRef      `json:"overdue"`
	Upcoming       []TaskRef      `json:"upcoming"` // due within the next 7 days
	PendingCount   int            `json:"pending_count"`
	CompletedCount int            `json:"completed_count"`
	AddedCount     int            `json:"added_count"`
	ByProject      []ProjectCount `json:"by_project"` // pending tasks only
}

// ProjectCount represents a count grouped by project.
type ProjectCount struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
}

// WeeklyReport contains the agenda for a Monday-to-Sunday week.
type WeeklyReport struct {
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	DailyBreakdown []DailySummary `json:"daily_breakdown"`
	NotesEdited    int            `json:"notes_edited"`
	TasksAdded     int            `json:"tasks_added"`
	TasksDue       []TaskRef      `json:"tasks_due"`
	ByProject      []ProjectCount `json:"by_project"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date         string `json:"date"`
	DayOfWeek    string `json:"day_of_week"`
	HasDailyNote bool   `json:"has_daily_note"`
	NotesEdited  int    `json:"notes_edited"`
	TasksAdded   int    `json:"tasks_added"`
	TasksDue     int    `json:"tasks_due"`
}
