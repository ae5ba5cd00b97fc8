package core

import (
	"strings"
	"testing"
)

func TestParseFile_HeadersAndNesting(t *testing.T) {
	content := strings.Join([]string{
		"# Groceries",
		"- [ ] Buy milk",
		"  - [ ] Whole milk",
		"    notes about milk",
		"## Errands",
		"- [ ] Post office",
	}, "\n")

	entries := ParseFile(content, "groceries.md", DefaultConfig(), refNow())
	if len(entries) != 1 || entries[0].Kind != EntryHeader {
		t.Fatalf("expected a single top-level header, got %+v", entries)
	}
	top := entries[0].Header
	if top.Name != "Groceries" || top.Level != 1 {
		t.Fatalf("unexpected header: %+v", top)
	}
	if len(top.Content) != 2 {
		t.Fatalf("expected task + nested header under Groceries, got %d entries", len(top.Content))
	}

	task := top.Content[0].TaskVal
	if task == nil || task.Name != "Buy milk" {
		t.Fatalf("unexpected first entry: %+v", top.Content[0])
	}
	if len(task.Subtasks) != 1 || task.Subtasks[0].Name != "Whole milk" {
		t.Fatalf("expected Whole milk as a subtask, got %+v", task.Subtasks)
	}
	if task.Subtasks[0].Description == nil || *task.Subtasks[0].Description != "notes about milk" {
		t.Fatalf("expected description attached to Whole milk, got %+v", task.Subtasks[0].Description)
	}

	sub := top.Content[1].Header
	if sub == nil || sub.Name != "Errands" || sub.Level != 2 {
		t.Fatalf("unexpected nested header: %+v", sub)
	}
	if len(sub.Content) != 1 || sub.Content[0].TaskVal.Name != "Post office" {
		t.Fatalf("unexpected Errands content: %+v", sub.Content)
	}
}

func TestParseFile_HeaderPoppingByLevel(t *testing.T) {
	content := strings.Join([]string{
		"# A",
		"## B",
		"### C",
		"- [ ] deep task",
		"# D",
		"- [ ] shallow task",
	}, "\n")
	entries := ParseFile(content, "f.md", DefaultConfig(), refNow())
	if len(entries) != 2 {
		t.Fatalf("expected headers A and D at top level, got %d", len(entries))
	}
	if entries[0].Header.Name != "A" || entries[1].Header.Name != "D" {
		t.Fatalf("unexpected top-level headers: %+v", entries)
	}
	dHeader := entries[1].Header
	if len(dHeader.Content) != 1 || dHeader.Content[0].TaskVal.Name != "shallow task" {
		t.Fatalf("expected D to directly contain shallow task, got %+v", dHeader.Content)
	}
}

func TestParseFile_EmptyHeadersDropped(t *testing.T) {
	content := strings.Join([]string{
		"# Empty",
		"# NotEmpty",
		"- [ ] something",
	}, "\n")
	entries := ParseFile(content, "f.md", DefaultConfig(), refNow())
	if len(entries) != 1 || entries[0].Header.Name != "NotEmpty" {
		t.Fatalf("expected empty header dropped, got %+v", entries)
	}
}

func TestParseFile_FileTagPropagation(t *testing.T) {
	content := strings.Join([]string{
		"#work",
		"- [ ] task one #personal",
		"- [ ] task two",
	}, "\n")
	entries := ParseFile(content, "f.md", DefaultConfig(), refNow())
	if len(entries) != 2 {
		t.Fatalf("expected two tasks, got %d", len(entries))
	}
	t1 := entries[0].TaskVal
	if len(t1.Tags) != 2 || t1.Tags[0] != "personal" || t1.Tags[1] != "work" {
		t.Fatalf("expected file tag appended after existing tags, got %+v", t1.Tags)
	}
	t2 := entries[1].TaskVal
	if len(t2.Tags) != 1 || t2.Tags[0] != "work" {
		t.Fatalf("expected file tag alone on untagged task, got %+v", t2.Tags)
	}
}

func TestParseFile_FileTagPropagationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileTagsPropagation = false
	content := strings.Join([]string{
		"#work",
		"- [ ] task one",
	}, "\n")
	entries := ParseFile(content, "f.md", cfg, refNow())
	if len(entries[0].TaskVal.Tags) != 0 {
		t.Fatalf("expected no tag propagation when disabled, got %+v", entries[0].TaskVal.Tags)
	}
}

func TestParseFile_CommentsAndCodeFencesIgnored(t *testing.T) {
	content := strings.Join([]string{
		"<!-- a comment -->",
		"<!-- a",
		"multi-line comment -->",
		"```",
		"- [ ] not a real task, inside a fence",
		"```",
		"- [ ] real task",
	}, "\n")
	entries := ParseFile(content, "f.md", DefaultConfig(), refNow())
	if len(entries) != 1 || entries[0].TaskVal.Name != "real task" {
		t.Fatalf("expected only the real task to survive, got %+v", entries)
	}
}

func TestParseFile_TrackerEmbedded(t *testing.T) {
	content := strings.Join([]string{
		"# Habits",
		"Tracker: Reading (01/01/2024)",
		"| daily | Pages |",
		"| ------ | ------ |",
		"| 01/01/2024 | 10 |",
		"| 02/01/2024 | 20 |",
		"- [ ] unrelated task",
	}, "\n")
	entries := ParseFile(content, "f.md", DefaultConfig(), refNow())
	header := entries[0].Header
	if len(header.Content) != 2 {
		t.Fatalf("expected tracker + task under Habits, got %+v", header.Content)
	}
	tr := header.Content[0].TrackerVal
	if tr == nil || tr.Name != "Reading" || tr.Length != 2 {
		t.Fatalf("unexpected tracker: %+v", tr)
	}
	if header.Content[1].TaskVal.Name != "unrelated task" {
		t.Fatalf("expected task to follow the tracker block, got %+v", header.Content[1])
	}
}
