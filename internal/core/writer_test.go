package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordedEdit struct {
	path       string
	lineNumber int
	before     string
	after      string
}

type fakeRecorder struct {
	edits []recordedEdit
}

func (f *fakeRecorder) RecordEdit(path string, lineNumber int, before, after string) {
	f.edits = append(f.edits, recordedEdit{path, lineNumber, before, after})
}

func TestSerializeTask_FieldOrderAndOmission(t *testing.T) {
	cfg := DefaultConfig()
	due := NewDay(2024, 6, 15)
	completion := uint(50)
	task := Task{
		Name:       "Buy milk",
		State:      StateToDo,
		DueDate:    &due,
		Completion: &completion,
		Priority:   2,
		Tags:       []string{"errand", "home"},
		IsToday:    true,
	}
	got := SerializeTask(task, cfg, 2)
	want := "  - [ ] Buy milk 15/06/2024 c50 p2 #errand #home @today"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSerializeTask_MinimalTask(t *testing.T) {
	cfg := DefaultConfig()
	task := Task{Name: "plain", State: StateDone}
	got := SerializeTask(task, cfg, 0)
	if got != "- [x] plain" {
		t.Fatalf("got %q", got)
	}
}

func TestSerializeTask_StateOnlyHasNoTrailingWhitespace(t *testing.T) {
	cfg := DefaultConfig()
	task := Task{State: StateToDo}
	got := SerializeTask(task, cfg, 0)
	if got != "- [ ]" {
		t.Fatalf("got %q, want %q", got, "- [ ]")
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("expected no trailing whitespace, got %q", got)
	}
}

func TestWriteTask_MutatesExistingLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	original := "# Header\n  - [ ] old task\nmore text\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lineNo := 2
	task := Task{Name: "new task", State: StateDone, SourcePath: path, LineNumber: &lineNo}
	rec := &fakeRecorder{}
	if err := WriteTask(task, DefaultConfig(), rec); err != nil {
		t.Fatalf("WriteTask: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(string(raw), "\n")
	if lines[1] != "  - [x] new task" {
		t.Fatalf("expected indentation preserved and content replaced, got %q", lines[1])
	}
	if lines[0] != "# Header" || lines[2] != "more text" {
		t.Fatalf("expected surrounding lines untouched, got %+v", lines)
	}
	if len(rec.edits) != 1 || rec.edits[0].lineNumber != 2 {
		t.Fatalf("expected one recorded edit at line 2, got %+v", rec.edits)
	}
}

func TestWriteTask_AppendsWhenNoLineNumber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	if err := os.WriteFile(path, []byte("# Header\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	task := Task{Name: "brand new", State: StateToDo, SourcePath: path}
	if err := WriteTask(task, DefaultConfig(), nil); err != nil {
		t.Fatalf("WriteTask: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "- [ ] brand new") {
		t.Fatalf("expected appended task, got %q", content)
	}
	if !strings.HasPrefix(content, "# Header\n") {
		t.Fatalf("expected original content preserved, got %q", content)
	}
}

func TestWriteTask_LineOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	if err := os.WriteFile(path, []byte("one line\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	lineNo := 99
	task := Task{Name: "x", SourcePath: path, LineNumber: &lineNo}
	if err := WriteTask(task, DefaultConfig(), nil); err != ErrLineOutOfRange {
		t.Fatalf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestWriteTask_NotAFile(t *testing.T) {
	dir := t.TempDir()
	task := Task{Name: "x", SourcePath: dir}
	if err := WriteTask(task, DefaultConfig(), nil); err != ErrNotAFile {
		t.Fatalf("expected ErrNotAFile, got %v", err)
	}
}

func TestWriteTracker_ReplacesTableRegion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	original := strings.Join([]string{
		"# Habits",
		"Tracker: Mood (01/01/2024)",
		"| daily | Mood |",
		"| ------ | ------ |",
		"| 01/01/2024 | 8 |",
		"- [ ] unrelated",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := DefaultConfig()
	tr := Tracker{
		Name:       "Mood",
		SourcePath: path,
		LineNumber: 2,
		StartDate:  NewDay(2024, 1, 1),
		Frequency:  Frequency{Unit: FreqDays, N: 1},
		Length:     2,
		Categories: []TrackerCategory{
			{Name: "Mood", Entries: []TrackerEntry{
				{Kind: TrackerEntryScore, Score: 8},
				{Kind: TrackerEntryScore, Score: 9},
			}},
		},
	}
	if err := WriteTracker(tr, cfg, 4); err != nil {
		t.Fatalf("WriteTracker: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(string(raw), "\n")
	if lines[0] != "# Habits" {
		t.Fatalf("expected prelude preserved, got %q", lines[0])
	}
	if lines[len(lines)-2] != "- [ ] unrelated" {
		t.Fatalf("expected trailing content preserved, got %+v", lines)
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "| 02/01/2024 | 9 |") {
		t.Fatalf("expected rewritten second row, got %q", joined)
	}
}
