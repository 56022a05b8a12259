// Package calendar maps calendar days to daily notes.
package calendar

import (
	"path"
	"sort"
	"strings"
	"time"
)

const (
	// DailyDir is the notes subdirectory that holds daily notes.
	DailyDir = "daily-notes"

	dateLayout = "2006-01-02"

	// GridWeeks is the number of rows MonthGrid always returns.
	GridWeeks = 6
)

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays moves d by n days, crossing month boundaries.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) String() string { return d.Time().Format(dateLayout) }

// Month identifies a displayed month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month { return Month{Year: d.Year, Month: d.Month} }

// Prev returns the previous month.
func (m Month) Prev() Month { return m.add(-1) }

// Next returns the following month.
func (m Month) Next() Month { return m.add(1) }

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Clamp returns day of m, limited to the days m actually has.
func (m Month) Clamp(day int) Date {
	if day < 1 {
		day = 1
	}
	if n := m.Days(); day > n {
		day = n
	}
	return Date{Year: m.Year, Month: m.Month, Day: day}
}

// DailyNotePath returns the store path of the daily note for d.
func DailyNotePath(d Date) string {
	return DailyDir + "/" + d.String() + ".md"
}

// ParseDailyName reports the date encoded in a note path's file stem.
func ParseDailyName(p string) (Date, bool) {
	base := path.Base(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	t, err := time.Parse(dateLayout, stem)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// Index resolves days to daily-note paths.
type Index struct {
	byDate map[Date]string
}

// Build indexes every path whose stem is a YYYY-MM-DD date. When several
// paths share a date the one under daily-notes/ wins, otherwise the
// lexicographically smallest.
func Build(paths []string) *Index {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	idx := &Index{byDate: make(map[Date]string)}
	for _, p := range sorted {
		d, ok := ParseDailyName(p)
		if !ok {
			continue
		}
		cur, taken := idx.byDate[d]
		if !taken || (!inDailyDir(cur) && inDailyDir(p)) {
			idx.byDate[d] = p
		}
	}
	return idx
}

func inDailyDir(p string) bool {
	return strings.HasPrefix(p, DailyDir+"/")
}

// ResolveDay returns the daily note path for d.
func (idx *Index) ResolveDay(d Date) (string, bool) {
	p, ok := idx.byDate[d]
	return p, ok
}

// DatesWithNotes returns the sorted day numbers of m that have a daily note.
func (idx *Index) DatesWithNotes(year int, month time.Month) []int {
	days := []int{}
	for d := range idx.byDate {
		if d.Year == year && d.Month == month {
			days = append(days, d.Day)
		}
	}
	sort.Ints(days)
	return days
}

// Day is one cell of a month grid. Day is 0 for padding cells.
type Day struct {
	Day        int
	HasNote    bool
	IsToday    bool
	IsSelected bool
}

// MonthGrid lays out m as GridWeeks Monday-first weeks.
func (idx *Index) MonthGrid(m Month, selected, today Date) [][7]Day {
	has := make(map[int]bool)
	for _, d := range idx.DatesWithNotes(m.Year, m.Month) {
		has[d] = true
	}

	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday == 0
	n := m.Days()

	grid := make([][7]Day, GridWeeks)
	for cell := 0; cell < GridWeeks*7; cell++ {
		day := cell - offset + 1
		if day < 1 || day > n {
			continue
		}
		date := Date{Year: m.Year, Month: m.Month, Day: day}
		grid[cell/7][cell%7] = Day{
			Day:        day,
			HasNote:    has[day],
			IsToday:    date == today,
			IsSelected: date == selected,
		}
	}
	return grid
}
