package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// This file implements the writer (§4.4). The writer reads the whole file,
// mutates the target line (or appends) in memory, then recreates the file
// in full; no tempfile+rename is required, so none is used here.

// EditRecorder is an optional hook invoked after a successful write, so a
// collaborator such as an edit-history store can observe what changed
// without the writer depending on it directly.
type EditRecorder interface {
	RecordEdit(path string, lineNumber int, before, after string)
}

// SerializeTask renders a task's fixed-attribute line:
// "<indent>- [<marker>] <name> [<due>] [c<pct>] [p<pri>] [#tag ...] [@today]"
// with empty fields omitted, single spaces between present fields, and no
// trailing whitespace. indentSpaces is the number of leading spaces to
// reproduce (the task's nesting depth in file terms, not its Subtasks).
func SerializeTask(task Task, cfg Config, indentSpaces int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", indentSpaces))
	b.WriteString("- [")
	b.WriteRune(stateMarker(task.State, cfg.TaskStateMarkers))
	b.WriteString("]")

	var fields []string
	if task.Name != "" {
		fields = append(fields, task.Name)
	}
	if task.DueDate != nil {
		fields = append(fields, FormatDate(*task.DueDate, cfg.UseAmericanFormat))
	}
	if task.Completion != nil {
		fields = append(fields, "c"+strconv.Itoa(int(*task.Completion)))
	}
	if task.Priority != 0 {
		fields = append(fields, "p"+strconv.Itoa(int(task.Priority)))
	}
	for _, tag := range task.Tags {
		fields = append(fields, "#"+tag)
	}
	if task.IsToday {
		fields = append(fields, "@today")
	}
	if len(fields) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(fields, " "))
	}
	return b.String()
}

// WriteTask rewrites task.SourcePath so that line task.LineNumber reads as
// SerializeTask(task, cfg, <original indentation>). If task.LineNumber is
// nil, the serialised task is appended at end of file followed by a blank
// line. recorder may be nil.
func WriteTask(task Task, cfg Config, recorder EditRecorder) error {
	info, err := os.Stat(task.SourcePath)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotAFile
	}

	raw, err := os.ReadFile(task.SourcePath)
	if err != nil {
		return err
	}
	content := string(raw)
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	if task.LineNumber == nil {
		serialised := SerializeTask(task, cfg, 0)
		lines = append(lines, serialised, "")
		if err := rewriteFile(task.SourcePath, lines, info.Mode()); err != nil {
			return err
		}
		if recorder != nil {
			recorder.RecordEdit(task.SourcePath, len(lines)-1, "", serialised)
		}
		return nil
	}

	idx := *task.LineNumber - 1
	if idx < 0 || idx >= len(lines) {
		return ErrLineOutOfRange
	}
	before := lines[idx]
	indent := len(before) - len(strings.TrimLeft(before, " "))
	after := SerializeTask(task, cfg, indent)
	lines[idx] = after
	if err := rewriteFile(task.SourcePath, lines, info.Mode()); err != nil {
		return err
	}
	if recorder != nil {
		recorder.RecordEdit(task.SourcePath, *task.LineNumber, before, after)
	}
	return nil
}

// WriteTracker rewrites tracker.SourcePath starting at its recorded line
// number with SerializeTracker's output, preserving the file prelude and
// anything after the table.
func WriteTracker(tracker Tracker, cfg Config, tableLineCount int) error {
	info, err := os.Stat(tracker.SourcePath)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotAFile
	}
	raw, err := os.ReadFile(tracker.SourcePath)
	if err != nil {
		return err
	}
	content := string(raw)
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	start := tracker.LineNumber - 1
	if start < 0 || start >= len(lines) {
		return ErrLineOutOfRange
	}
	end := start + tableLineCount
	if end > len(lines) {
		end = len(lines)
	}

	rendered := SerializeTracker(tracker, cfg)
	out := make([]string, 0, len(lines)-(end-start)+len(rendered))
	out = append(out, lines[:start]...)
	out = append(out, rendered...)
	out = append(out, lines[end:]...)
	return rewriteFile(tracker.SourcePath, out, info.Mode())
}

func rewriteFile(path string, lines []string, mode os.FileMode) error {
	out := strings.Join(lines, "\n") + "\n"
	if err := os.Truncate(path, 0); err != nil {
		return fmt.Errorf("core: truncate %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return fmt.Errorf("core: rewrite %s: %w", path, err)
	}
	return nil
}
