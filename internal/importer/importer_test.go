package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"ratanotes/internal/tasks"
)

// TestTodoist_ParseCSV tests parsing valid Todoist CSV.
func TestTodoist_ParseCSV(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Buy groceries,4,1,,,2025-12-20,en,America/New_York
task,Review PR,1,1,,,,,
note,This is a note,4,1,,,,,
task,Call mom,3,1,,,,,`

	importer := &TodoistImporter{}
	got, err := importer.Preview(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	// Should have 3 tasks (note is skipped)
	if len(got) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(got))
	}

	// Check first task
	if got[0].Description != "Buy groceries" {
		t.Errorf("Expected 'Buy groceries', got %q", got[0].Description)
	}
	if got[0].DueDate == nil {
		t.Error("Expected due date for first task")
	}
}

// TestTodoist_PriorityMapping tests Todoist priority conversion.
func TestTodoist_PriorityMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected tasks.Priority
	}{
		{"1", tasks.PriorityHigh},   // Urgent
		{"2", tasks.PriorityHigh},   // High
		{"3", tasks.PriorityMedium}, // Medium
		{"4", tasks.PriorityLow},    // Normal
		{"", tasks.PriorityMedium},
		{"5", tasks.PriorityMedium},
	}

	for _, tc := range tests {
		result := mapTodoistPriority(tc.input)
		if result != tc.expected {
			t.Errorf("mapTodoistPriority(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

// TestTodoist_DateParsing tests various date formats.
func TestTodoist_DateParsing(t *testing.T) {
	tests := []struct {
		input    string
		hasDate  bool
		expected string // YYYY-MM-DD format
	}{
		{"2025-12-20", true, "2025-12-20"},
		{"Jan 2 2025", true, "2025-01-02"},
		{"", false, ""},
		{"invalid", false, ""},
	}

	for _, tc := range tests {
		result := parseTodoistDate(tc.input)
		if tc.hasDate {
			if result == nil {
				t.Errorf("parseTodoistDate(%q) = nil, want date", tc.input)
			} else if result.Format("2006-01-02") != tc.expected {
				t.Errorf("parseTodoistDate(%q) = %s, want %s", tc.input, result.Format("2006-01-02"), tc.expected)
			}
		} else {
			if result != nil {
				t.Errorf("parseTodoistDate(%q) = %v, want nil", tc.input, result)
			}
		}
	}
}

// TestTodoist_EmptyFile tests handling of empty CSV.
func TestTodoist_EmptyFile(t *testing.T) {
	importer := &TodoistImporter{}
	_, err := importer.Preview(strings.NewReader(""))
	if err == nil {
		t.Error("Expected error for empty CSV")
	}
}

// TestTodoist_MissingColumns tests handling of missing required columns.
func TestTodoist_MissingColumns(t *testing.T) {
	csv := `CONTENT,PRIORITY
Buy groceries,4`

	importer := &TodoistImporter{}
	_, err := importer.Preview(strings.NewReader(csv))
	if err == nil {
		t.Error("Expected error for missing TYPE column")
	}
}

func TestTodoist_HeaderBOM(t *testing.T) {
	csv := "\ufeffTYPE,CONTENT,PRIORITY\n" +
		"task,With BOM,4\n"

	importer := &TodoistImporter{}
	got, err := importer.Preview(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(got))
	}
	if got[0].Description != "With BOM" {
		t.Errorf("Expected 'With BOM', got %q", got[0].Description)
	}
}

func TestTodoist_RaggedRows(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY
task,One,4,EXTRA,EXTRA2
task,Two,1`

	importer := &TodoistImporter{}
	got, err := importer.Preview(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(got))
	}
}

// TestTaskwarrior_ParseJSON tests parsing Taskwarrior JSON array.
func TestTaskwarrior_ParseJSON(t *testing.T) {
	json := `[
		{"description":"Buy milk","status":"pending","project":"Home","priority":"H"},
		{"description":"Review code","status":"completed","project":"Work"},
		{"description":"Deleted task","status":"deleted"}
	]`

	importer := &TaskwarriorImporter{}
	got, err := importer.Preview(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	// Should have 2 tasks (deleted is skipped)
	if len(got) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(got))
	}

	// Check first task
	if got[0].Description != "Buy milk" {
		t.Errorf("Expected 'Buy milk', got %q", got[0].Description)
	}
	if got[0].Priority != tasks.PriorityHigh {
		t.Errorf("Expected high priority, got %q", got[0].Priority)
	}
	if got[0].Project != "Home" {
		t.Errorf("Expected project 'Home', got %q", got[0].Project)
	}

	// Check completed task
	if !got[1].Completed {
		t.Error("Expected second task to be done")
	}
}

// TestTaskwarrior_ParseNDJSON tests parsing newline-delimited JSON.
func TestTaskwarrior_ParseNDJSON(t *testing.T) {
	ndjson := `{"description":"Task 1","status":"pending"}
{"description":"Task 2","status":"pending","priority":"M"}
{"description":"Task 3","status":"completed"}`

	importer := &TaskwarriorImporter{}
	got, err := importer.Preview(strings.NewReader(ndjson))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	if len(got) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(got))
	}

	// Check priority mapping
	if got[1].Priority != tasks.PriorityMedium {
		t.Errorf("Expected medium priority, got %q", got[1].Priority)
	}
}

// TestTaskwarrior_StatusMapping tests status to done conversion.
func TestTaskwarrior_StatusMapping(t *testing.T) {
	json := `[
		{"description":"Pending","status":"pending"},
		{"description":"Completed","status":"completed"},
		{"description":"Waiting","status":"waiting"},
		{"description":"Deleted","status":"deleted"}
	]`

	importer := &TaskwarriorImporter{}
	got, err := importer.Preview(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	// Should have 3 tasks (deleted is skipped)
	if len(got) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(got))
	}

	// Check done status
	if got[0].Completed {
		t.Error("Pending task should not be done")
	}
	if !got[1].Completed {
		t.Error("Completed task should be done")
	}
	if got[2].Completed {
		t.Error("Waiting task should not be done")
	}
}

// TestTaskwarrior_PriorityMapping tests Taskwarrior priority conversion.
func TestTaskwarrior_PriorityMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected tasks.Priority
	}{
		{"H", tasks.PriorityHigh},
		{"h", tasks.PriorityHigh},
		{"M", tasks.PriorityMedium},
		{"m", tasks.PriorityMedium},
		{"L", tasks.PriorityLow},
		{"l", tasks.PriorityLow},
		{"", tasks.PriorityMedium},
	}

	for _, tc := range tests {
		result := mapTaskwarriorPriority(tc.input)
		if result != tc.expected {
			t.Errorf("mapTaskwarriorPriority(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

// TestTaskwarrior_DateParsing tests Taskwarrior date format parsing.
func TestTaskwarrior_DateParsing(t *testing.T) {
	tests := []struct {
		input   string
		hasDate bool
	}{
		{"20251220T000000Z", true},
		{"20251220T120000", true},
		{"2025-12-20T00:00:00Z", true},
		{"2025-12-20", true},
		{"", false},
		{"invalid", false},
	}

	for _, tc := range tests {
		result := parseTaskwarriorDate(tc.input)
		if tc.hasDate && result == nil {
			t.Errorf("parseTaskwarriorDate(%q) = nil, want date", tc.input)
		}
		if !tc.hasDate && result != nil {
			t.Errorf("parseTaskwarriorDate(%q) = %v, want nil", tc.input, result)
		}
	}
}

// TestTaskwarrior_EmptyInput tests handling of empty input.
func TestTaskwarrior_EmptyInput(t *testing.T) {
	importer := &TaskwarriorImporter{}
	_, err := importer.Preview(strings.NewReader(""))
	if err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestTaskwarrior_LongNDJSONLine(t *testing.T) {
	desc := strings.Repeat("a", 70_000)
	ndjson := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n", desc)

	importer := &TaskwarriorImporter{}
	got, err := importer.Preview(strings.NewReader(ndjson))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(got))
	}
	if got[0].Description != desc {
		t.Errorf("Unexpected task text length: got %d, want %d", len(got[0].Description), len(desc))
	}
}

func TestTaskwarrior_InvalidNDJSONReturnsError(t *testing.T) {
	ndjson := `{"description":"Task 1","status":"pending"}
{invalid json}
{"description":"Task 2","status":"pending"}`

	importer := &TaskwarriorImporter{}
	_, err := importer.Preview(strings.NewReader(ndjson))
	if err == nil {
		t.Fatal("Expected error for invalid NDJSON")
	}
}

// TestGetImporter tests the importer factory function.
func TestGetImporter(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"todoist", "todoist"},
		{"taskwarrior", "taskwarrior"},
		{"unknown", ""},
	}

	for _, tc := range tests {
		importer := GetImporter(tc.format)
		if tc.expected == "" {
			if importer != nil {
				t.Errorf("GetImporter(%q) should return nil", tc.format)
			}
		} else {
			if importer == nil {
				t.Errorf("GetImporter(%q) should not return nil", tc.format)
			} else if importer.Name() != tc.expected {
				t.Errorf("GetImporter(%q).Name() = %q, want %q", tc.format, importer.Name(), tc.expected)
			}
		}
	}
}

// TestSupportedFormats tests the supported formats list.
func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) < 2 {
		t.Errorf("Expected at least 2 formats, got %d", len(formats))
	}

	// Check that todoist and taskwarrior are included
	found := map[string]bool{"todoist": false, "taskwarrior": false}
	for _, f := range formats {
		found[f] = true
	}

	for format, ok := range found {
		if !ok {
			t.Errorf("Expected %q in supported formats", format)
		}
	}
}

func TestTodoist_IndentBecomesSubTasks(t *testing.T) {
	csv := `TYPE,CONTENT,PRIORITY,INDENT,DATE
task,Plan trip,1,1,2025-12-20
task,Book flights,4,2,
task,Pick seats,4,3,
task,Book hotel,3,2,
note,Ignore me,4,2,
task,Water plants,4,1,`

	importer := &TodoistImporter{}
	got, err := importer.Preview(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 top-level tasks, got %d", len(got))
	}

	trip := got[0]
	if trip.DueDate == nil || trip.DueDate.String() != "2025-12-20" {
		t.Errorf("DueDate = %v, want 2025-12-20", trip.DueDate)
	}
	if len(trip.SubTasks) != 2 {
		t.Fatalf("Expected 2 sub-tasks, got %d", len(trip.SubTasks))
	}
	if trip.SubTasks[0].Description != "Book flights" || len(trip.SubTasks[0].SubTasks) != 1 {
		t.Errorf("SubTasks[0] = %+v", trip.SubTasks[0])
	}
	if trip.SubTasks[1].Description != "Book hotel" {
		t.Errorf("SubTasks[1] = %q, want Book hotel", trip.SubTasks[1].Description)
	}
	if Count(got) != 5 {
		t.Errorf("Count() = %d, want 5", Count(got))
	}
}

func TestTaskwarrior_EntryBecomesCreatedAt(t *testing.T) {
	json := `[{"description":"Old","status":"pending","entry":"20240102T030405Z","due":"20240110T000000Z"}]`

	importer := &TaskwarriorImporter{}
	got, err := importer.Preview(strings.NewReader(json))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if got[0].CreatedAt == nil || got[0].CreatedAt.Format("2006-01-02T15:04:05") != "2024-01-02T03:04:05" {
		t.Errorf("CreatedAt = %v", got[0].CreatedAt)
	}
	if got[0].DueDate == nil {
		t.Error("Expected due date")
	}
}

// TestImport_Integration tests an import into a task store.
func TestImport_Integration(t *testing.T) {
	store := tasks.NewStore(filepath.Join(t.TempDir(), tasks.FileName), nil)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	csv := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Test task 1,1,1,,,,,
task,Test sub-task,4,2,,,,,
task,Test task 2,4,1,,,,,`

	result, err := Import(&TodoistImporter{}, strings.NewReader(csv), store)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Imported != 3 {
		t.Errorf("Expected 3 imported, got %d", result.Imported)
	}
	if !store.Dirty() {
		t.Error("store should be dirty after import")
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := tasks.NewStore(store.Path(), nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if n := len(reloaded.All()); n != 2 {
		t.Errorf("Expected 2 top-level tasks, got %d", n)
	}
	if rows := reloaded.Flatten(); len(rows) != 3 || rows[1].Depth != 1 {
		t.Errorf("Flatten() = %+v", rows)
	}
}

func TestImport_RejectedTaskIsReported(t *testing.T) {
	store := tasks.NewStore(filepath.Join(t.TempDir(), tasks.FileName), nil)
	long := strings.Repeat("a", 300)
	ndjson := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n{\"description\":\"ok\",\"status\":\"pending\"}\n", long)

	result, err := Import(&TaskwarriorImporter{}, strings.NewReader(ndjson), store)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 1 {
		t.Errorf("Imported = %d, Errors = %v", result.Imported, result.Errors)
	}
}
