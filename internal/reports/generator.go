package reports

import (
	"sort"
	"time"

	"ratanotes/internal/calendar"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
)

// upcomingDays is how far ahead a daily report looks for due tasks.
const upcomingDays = 7

// Generator creates reports from a snapshot of notes and tasks.
type Generator struct {
	notes []notes.Note
	tasks []TaskRef
	added []calendar.Date // creation day of each task, parallel to tasks
	cal   *calendar.Index
	loc   *time.Location
	now   func() time.Time
}

// NewGenerator snapshots ns and ts. Note modification times and task
// creation times are bucketed into days in loc.
func NewGenerator(ns *notes.Store, ts *tasks.Store, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	g := &Generator{
		notes: ns.All(),
		cal:   calendar.Build(ns.Paths()),
		loc:   loc,
		now:   time.Now,
	}
	var walk func(list []tasks.Task, parent string)
	walk = func(list []tasks.Task, parent string) {
		for _, t := range list {
			g.tasks = append(g.tasks, taskRef(t, parent))
			var added calendar.Date
			if t.CreatedAt != nil {
				added = calendar.DateOf(t.CreatedAt.In(loc))
			}
			g.added = append(g.added, added)
			walk(t.SubTasks, t.Description)
		}
	}
	walk(ts.All(), "")
	return g
}

// SetNowFunc overrides the clock used for GeneratedAt.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

func taskRef(t tasks.Task, parent string) TaskRef {
	ref := TaskRef{
		ID:          t.ID,
		Description: t.Description,
		Project:     t.Project,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		Parent:      parent,
	}
	if t.DueDate != nil {
		ref.Due = t.DueDate.String()
	}
	return ref
}

// GenerateDaily generates the agenda for day.
func (g *Generator) GenerateDaily(day calendar.Date) *DailyReport {
	report := &DailyReport{
		Date:        day.String(),
		NotesEdited: g.notesEditedOn(day),
		Tasks:       g.taskSummary(day),
		GeneratedAt: g.now(),
	}
	if p, ok := g.cal.ResolveDay(day); ok {
		ref := g.noteRef(p)
		report.DailyNote = &ref
	}
	return report
}

// GenerateWeekly generates the agenda for the Monday-to-Sunday week containing day.
func (g *Generator) GenerateWeekly(day calendar.Date) *WeeklyReport {
	start := startOfWeek(day)
	end := start.AddDays(6)

	report := &WeeklyReport{
		StartDate:   start.String(),
		EndDate:     end.String(),
		GeneratedAt: g.now(),
	}
	for i := range 7 {
		d := start.AddDays(i)
		_, hasDaily := g.cal.ResolveDay(d)
		summary := DailySummary{
			Date:         d.String(),
			DayOfWeek:    d.Time().Weekday().String(),
			HasDailyNote: hasDaily,
			NotesEdited:  len(g.notesEditedOn(d)),
		}
		for j, t := range g.tasks {
			if g.added[j] == d {
				summary.TasksAdded++
			}
			if t.Due == d.String() && !t.Completed {
				summary.TasksDue++
				report.TasksDue = append(report.TasksDue, t)
			}
		}
		report.NotesEdited += summary.NotesEdited
		report.TasksAdded += summary.TasksAdded
		report.DailyBreakdown = append(report.DailyBreakdown, summary)
	}
	report.ByProject = g.pendingByProject()
	return report
}

func (g *Generator) noteRef(p string) NoteRef {
	for _, n := range g.notes {
		if n.Path == p {
			return NoteRef{Path: n.Path, Title: n.Title, Tags: n.Tags}
		}
	}
	return NoteRef{Path: p}
}

// notesEditedOn lists notes last modified on day, newest first.
func (g *Generator) notesEditedOn(day calendar.Date) []NoteRef {
	var edited []notes.Note
	for _, n := range g.notes {
		if calendar.DateOf(n.UpdatedAt.In(g.loc)) == day {
			edited = append(edited, n)
		}
	}
	sort.SliceStable(edited, func(i, j int) bool {
		if !edited[i].UpdatedAt.Equal(edited[j].UpdatedAt) {
			return edited[i].UpdatedAt.After(edited[j].UpdatedAt)
		}
		return edited[i].Path < edited[j].Path
	})
	refs := make([]NoteRef, 0, len(edited))
	for _, n := range edited {
		refs = append(refs, NoteRef{Path: n.Path, Title: n.Title, Tags: n.Tags})
	}
	return refs
}

func (g *Generator) taskSummary(day calendar.Date) TaskSummary {
	today := day.String()
	horizon := day.AddDays(upcomingDays).String()

	summary := TaskSummary{
		DueToday: []TaskRef{},
		Overdue:  []TaskRef{},
		Upcoming: []TaskRef{},
	}
	for i, t := range g.tasks {
		if g.added[i] == day {
			summary.AddedCount++
		}
		if t.Completed {
			summary.CompletedCount++
			continue
		}
		summary.PendingCount++

		// YYYY-MM-DD strings order like the dates they name.
		switch {
		case t.Due == "":
		case t.Due < today:
			summary.Overdue = append(summary.Overdue, t)
		case t.Due == today:
			summary.DueToday = append(summary.DueToday, t)
		case t.Due <= horizon:
			summary.Upcoming = append(summary.Upcoming, t)
		}
	}
	sort.SliceStable(summary.Overdue, func(i, j int) bool { return summary.Overdue[i].Due < summary.Overdue[j].Due })
	sort.SliceStable(summary.Upcoming, func(i, j int) bool { return summary.Upcoming[i].Due < summary.Upcoming[j].Due })
	summary.ByProject = g.pendingByProject()
	return summary
}

// pendingByProject counts pending tasks per project, largest first.
func (g *Generator) pendingByProject() []ProjectCount {
	counts := make(map[string]int)
	for _, t := range g.tasks {
		if t.Completed {
			continue
		}
		project := t.Project
		if project == "" {
			project = "General"
		}
		counts[project]++
	}

	byProject := make([]ProjectCount, 0, len(counts))
	for project, count := range counts {
		byProject = append(byProject, ProjectCount{Project: project, Count: count})
	}
	sort.Slice(byProject, func(i, j int) bool {
		if byProject[i].Count != byProject[j].Count {
			return byProject[i].Count > byProject[j].Count
		}
		return byProject[i].Project < byProject[j].Project
	})
	return byProject
}

// startOfWeek returns the Monday on or before d.
func startOfWeek(d calendar.Date) calendar.Date {
	offset := (int(d.Time().Weekday()) + 6) % 7
	return d.AddDays(-offset)
}
