package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ratanotes/internal/app"
	"ratanotes/internal/calendar"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

// window returns the first index of a height-sized slice of n rows that keeps
// cursor visible.
func window(cursor, n, height int) (start, end int) {
	if height < 1 {
		height = 1
	}
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(n, start+height)
}

func (a *App) pane(title string, body string, focused bool, width, height int) string {
	style := a.styles.PaneStyle
	if focused {
		style = a.styles.PaneFocusedStyle
	}
	content := a.styles.PaneTitleStyle.Render(title) + "\n" + body
	// Border and padding take two columns on each side and a row top and bottom.
	return style.Width(max(10, width-2)).Height(max(3, height-2)).Render(content)
}

func (a *App) renderNoteList(snap app.Snapshot, width, height int) string {
	title := fmt.Sprintf("Notes (%d)", len(snap.Notes))
	if snap.ActiveTag != "" {
		title += "  #" + snap.ActiveTag
	}
	if snap.Query != "" {
		title += "  /" + snap.Query
	}

	if a.layoutMode == LayoutNarrow {
		if snap.Focus == app.FocusTags {
			return a.pane("Tags", a.tagLines(snap, width-4, height-4), true, width, height)
		}
		return a.pane(title, a.noteLines(snap, width-4, height-4, true), true, width, height)
	}

	tagsWidth := min(30, width/4)
	notesWidth := width - tagsWidth - 1
	notesPane := a.pane(title, a.noteLines(snap, notesWidth-4, height-4, snap.Focus == app.FocusNotes), snap.Focus == app.FocusNotes, notesWidth, height)
	tagsPane := a.pane("Tags", a.tagLines(snap, tagsWidth-4, height-4), snap.Focus == app.FocusTags, tagsWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, notesPane, " ", tagsPane)
}

func (a *App) noteLines(snap app.Snapshot, width, height int, focused bool) string {
	if len(snap.Notes) == 0 {
		return a.styles.EmptyStyle.Render("No notes. Press 'a' to create one.")
	}
	var b strings.Builder
	start, end := window(snap.NoteSel, len(snap.Notes), height)
	for i := start; i < end; i++ {
		b.WriteString(a.noteLine(snap.Notes[i], width, focused && i == snap.NoteSel))
		b.WriteString("\n")
	}
	return b.String()
}

// noteLine renders "title  path  #tags", truncating the title first.
func (a *App) noteLine(n notes.Note, width int, selected bool) string {
	var tags string
	if len(n.Tags) > 0 {
		tags = "#" + strings.Join(n.Tags, " #")
	}
	suffix := n.Path
	if tags != "" {
		suffix += "  " + tags
	}
	suffix = runewidth.Truncate(suffix, max(10, width/2), "..")
	titleWidth := max(5, width-runewidth.StringWidth(suffix)-2)
	title := runewidth.Truncate(n.Title, titleWidth, "..")
	pad := strings.Repeat(" ", max(1, titleWidth-runewidth.StringWidth(title)+2))

	if selected {
		return a.styles.SelectedStyle.Render(title + pad + suffix)
	}
	return a.styles.ItemStyle.Render(title) + pad + a.styles.PathStyle.Render(suffix)
}

func (a *App) tagLines(snap app.Snapshot, width, height int) string {
	if len(snap.Tags) == 0 {
		return a.styles.EmptyStyle.Render("No tags")
	}
	var b strings.Builder
	start, end := window(snap.TagSel, len(snap.Tags), height)
	for i := start; i < end; i++ {
		tag := snap.Tags[i]
		marker := "  "
		if tag == snap.ActiveTag {
			marker = "● "
		}
		line := runewidth.Truncate(marker+"#"+tag, width, "..")
		if snap.Focus == app.FocusTags && i == snap.TagSel {
			b.WriteString(a.styles.SelectedStyle.Render(line))
		} else {
			b.WriteString(a.styles.TagStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderEditor(snap app.Snapshot, width, height int) string {
	ed := snap.Editor
	if ed == nil {
		return a.pane("Editor", a.styles.EmptyStyle.Render("No note open"), true, width, height)
	}

	title := ed.Title + "  " + a.styles.PathStyle.Render(ed.Path)
	if ed.Dirty {
		title += " " + a.styles.DirtyStyle.Render("[+]")
	}

	textWidth := max(5, width-4-5)
	var b strings.Builder
	start, end := window(ed.Row, len(ed.Lines), height-4)
	for i := start; i < end; i++ {
		line := strings.ReplaceAll(ed.Lines[i], "\t", "    ")
		b.WriteString(a.styles.LineNoStyle.Render(fmt.Sprintf("%3d ", i+1)))
		if i == ed.Row {
			b.WriteString(a.cursorLine(ed.Lines[i], ed.Col, textWidth))
		} else {
			b.WriteString(runewidth.Truncate(line, textWidth, ".."))
		}
		b.WriteString("\n")
	}
	return a.pane(title, b.String(), true, width, height)
}

// cursorLine draws line with the rune at col highlighted, scrolling
// horizontally so the cursor stays inside width.
func (a *App) cursorLine(line string, col, width int) string {
	r := []rune(line)
	col = min(col, len(r))
	startCol := 0
	if col >= width {
		startCol = col - width + 1
	}
	before := string(r[startCol:col])
	cursor := " "
	after := ""
	if col < len(r) {
		cursor = string(r[col])
		after = string(r[col+1:])
	}
	if cursor == "\t" {
		cursor = " "
	}
	rest := max(0, width-runewidth.StringWidth(before)-1)
	return before + a.styles.CursorStyle.Render(cursor) + runewidth.Truncate(strings.ReplaceAll(after, "\t", "    "), rest, "")
}

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func (a *App) renderCalendar(snap app.Snapshot, width, height int) string {
	cal := snap.Calendar
	var b strings.Builder

	for i, d := range weekdays {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(a.styles.WeekdayStyle.Render(d))
	}
	b.WriteString("\n")

	for _, week := range cal.Grid {
		for i, day := range week {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(a.dayCell(day))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.StatValueStyle.Render(cal.Selected.String()))
	b.WriteString("  ")
	if cal.Path != "" {
		b.WriteString(a.styles.PathStyle.Render(cal.Path))
	} else {
		b.WriteString(a.styles.EmptyStyle.Render("no note, enter creates " + calendar.DailyNotePath(cal.Selected)))
	}
	b.WriteString("\n")

	return a.pane(cal.Month.String(), b.String(), true, width, height)
}

func (a *App) dayCell(d calendar.Day) string {
	if d.Day == 0 {
		return "  "
	}
	text := fmt.Sprintf("%2d", d.Day)
	switch {
	case d.IsSelected:
		return a.styles.DaySelectedStyle.Render(text)
	case d.IsToday:
		return a.styles.DayTodayStyle.Render(text)
	case d.HasNote:
		return a.styles.DayNoteStyle.Render(text)
	default:
		return a.styles.DayStyle.Render(text)
	}
}

func (a *App) renderTasks(snap app.Snapshot, width, height int) string {
	done := 0
	for _, r := range snap.Tasks {
		if r.Task.Completed {
			done++
		}
	}
	title := fmt.Sprintf("Tasks (%d/%d done)", done, len(snap.Tasks))
	return a.pane(title, a.taskLines(snap, width-4, height-4, true), true, width, height)
}

func (a *App) taskLines(snap app.Snapshot, width, height int, focused bool) string {
	if len(snap.Tasks) == 0 {
		return a.styles.EmptyStyle.Render("No tasks yet. Press 'a' to add one.")
	}
	var b strings.Builder
	start, end := window(snap.TaskSel, len(snap.Tasks), height)
	for i := start; i < end; i++ {
		b.WriteString(a.taskLine(snap.Tasks[i], width, focused && i == snap.TaskSel))
		b.WriteString("\n")
	}
	return b.String()
}

// taskLine lays out [indent][priority][checkbox] text [+project] [due].
func (a *App) taskLine(r tasks.Row, width int, selected bool) string {
	t := r.Task
	indent := strings.Repeat("  ", r.Depth)
	badge := a.formatPriorityBadge(t.Priority)

	checkbox := a.styles.TaskCheckboxPending
	if t.Completed {
		checkbox = a.styles.TaskCheckboxDone
	}

	var extra []string
	if t.Project != "" {
		extra = append(extra, a.styles.ProjectStyle.Render("+"+t.Project))
	}
	if due := a.formatDueDate(t.DueDate); due != "" {
		extra = append(extra, due)
	}
	tail := strings.Join(extra, " ")
	tailWidth := lipgloss.Width(tail)

	// indent + badge + checkbox + spaces
	fixed := len(indent) + 1 + 3 + 1
	if tailWidth > 0 {
		fixed += tailWidth + 1
	}
	textWidth := max(5, width-fixed)
	text := runewidth.Truncate(t.Description, textWidth, "..")
	pad := strings.Repeat(" ", max(1, textWidth-runewidth.StringWidth(text)+1))

	if selected {
		return a.styles.SelectedStyle.Render(indent + badge + checkbox + " " + text + pad + tail)
	}
	styled := a.styles.TaskPendingStyle.Render(text)
	if t.Completed {
		styled = a.styles.TaskDoneStyle.Render(text)
	}
	return indent + badge + checkbox + " " + styled + pad + tail
}

// formatPriorityBadge returns "!" for high, "~" for medium and a space for low.
func (a *App) formatPriorityBadge(p tasks.Priority) string {
	switch p {
	case tasks.PriorityHigh:
		return a.styles.PriorityHighStyle.Render("!")
	case tasks.PriorityMedium:
		return a.styles.PriorityMediumStyle.Render("~")
	default:
		return " "
	}
}

// formatDueDate returns a compact, styled due date indicator.
// Returns empty string if no due date, otherwise: "!" (overdue), "T" (today),
// "+1" (tomorrow), "3d" (days), "2w" (weeks), ">1m" (over a month).
func (a *App) formatDueDate(due *tasks.Date) string {
	if due == nil {
		return ""
	}

	now := a.config.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return a.styles.DueDateOverdueStyle.Render("!")
	case days == 0:
		return a.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return a.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return a.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		return a.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", days/7))
	default:
		return a.styles.DueDateFutureStyle.Render(">1m")
	}
}

func (a *App) renderSearch(snap app.Snapshot, width, height int) string {
	noteHeight := max(3, (height-4)*2/3)
	taskHeight := max(2, height-4-noteHeight-2)

	var b strings.Builder
	b.WriteString(a.styles.StatLabelStyle.Render(fmt.Sprintf("%d notes", len(snap.Notes))))
	b.WriteString("\n")
	if len(snap.Notes) == 0 {
		b.WriteString(a.styles.EmptyStyle.Render("No matching notes"))
		b.WriteString("\n")
	} else {
		b.WriteString(a.noteLines(snap, width-4, noteHeight, true))
	}

	b.WriteString(a.styles.StatLabelStyle.Render(fmt.Sprintf("%d tasks", len(snap.Tasks))))
	b.WriteString("\n")
	if len(snap.Tasks) > 0 {
		b.WriteString(a.taskLines(snap, width-4, taskHeight, false))
	}

	title := "Search"
	if snap.Query != "" {
		title += ": " + snap.Query
	}
	return a.pane(title, b.String(), true, width, height)
}
