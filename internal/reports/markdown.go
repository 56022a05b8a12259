package reports

import (
	"fmt"
	"strings"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Report: %s\n\n", r.Date)

	b.WriteString("## Daily note\n\n")
	if r.DailyNote != nil {
		fmt.Fprintf(&b, "- [%s](%s)\n\n", r.DailyNote.Title, r.DailyNote.Path)
	} else {
		b.WriteString("_No daily note._\n\n")
	}

	fmt.Fprintf(&b, "## Notes edited (%d)\n\n", len(r.NotesEdited))
	for _, n := range r.NotesEdited {
		b.WriteString(noteLine(n))
	}
	if len(r.NotesEdited) == 0 {
		b.WriteString("_None._\n")
	}
	b.WriteString("\n")

	t := r.Tasks
	b.WriteString("## Tasks\n\n")
	fmt.Fprintf(&b, "Pending: %d · Completed: %d · Added today: %d\n\n", t.PendingCount, t.CompletedCount, t.AddedCount)
	writeTaskSection(&b, "Overdue", t.Overdue)
	writeTaskSection(&b, "Due today", t.DueToday)
	writeTaskSection(&b, "Upcoming", t.Upcoming)
	writeProjects(&b, t.ByProject)

	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Report: %s to %s\n\n", r.StartDate, r.EndDate)
	fmt.Fprintf(&b, "Notes edited: %d · Tasks added: %d · Tasks due: %d\n\n", r.NotesEdited, r.TasksAdded, len(r.TasksDue))

	b.WriteString("| Day | Date | Daily note | Notes edited | Tasks added | Tasks due |\n")
	b.WriteString("|-----|------|------------|--------------|-------------|-----------|\n")
	for _, d := range r.DailyBreakdown {
		daily := ""
		if d.HasDailyNote {
			daily = "✓"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %d |\n", d.DayOfWeek[:3], d.Date, daily, d.NotesEdited, d.TasksAdded, d.TasksDue)
	}
	b.WriteString("\n")

	writeTaskSection(&b, "Due this week", r.TasksDue)
	writeProjects(&b, r.ByProject)
	return b.String()
}

func noteLine(n NoteRef) string {
	line := fmt.Sprintf("- [%s](%s)", n.Title, n.Path)
	if len(n.Tags) > 0 {
		line += " #" + strings.Join(n.Tags, " #")
	}
	return line + "\n"
}

func writeTaskSection(b *strings.Builder, title string, list []TaskRef) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, t := range list {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(b, "- [%s] %s", box, t.Description)
		if t.Project != "" {
			fmt.Fprintf(b, " +%s", t.Project)
		}
		fmt.Fprintf(b, " !%s", t.Priority)
		if t.Due != "" {
			fmt.Fprintf(b, " due:%s", t.Due)
		}
		if t.Parent != "" {
			fmt.Fprintf(b, " (under %q)", t.Parent)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeProjects(b *strings.Builder, projects []ProjectCount) {
	if len(projects) == 0 {
		return
	}
	b.WriteString("### Pending by project\n\n")
	for _, p := range projects {
		fmt.Fprintf(b, "- %s: %d\n", p.Project, p.Count)
	}
	b.WriteString("\n")
}
