package core

import (
	"regexp"
	"strings"
	"time"
)

// This file implements the filter engine (§4.7): parsing a user search
// string into a Filter predicate and applying it to a parsed tree.

var filterStateExpr = regexp.MustCompile(`^-\s*\[(.)\]\s*(.*)$`)

// ParseFilter parses a user search string into a Filter: an optional
// leading "!" negates the predicate, an optional leading "- [<state>]" pins
// the state axis, and the remainder is parsed as a task body (§4.2).
func ParseFilter(search string, cfg Config, now time.Time) Filter {
	s := strings.TrimSpace(search)
	f := Filter{}
	if strings.HasPrefix(s, "!") {
		f.Inverted = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "!"))
	}
	if m := filterStateExpr.FindStringSubmatch(s); m != nil && len([]rune(m[1])) == 1 {
		state := markerState([]rune(m[1])[0], cfg.TaskStateMarkers)
		f.State = &state
		s = strings.TrimSpace(m[2])
	}

	lineNo := 0
	task, err := ParseTaskLine("- [ ] "+s, cfg, "", &lineNo, now)
	if err == nil {
		f.Task = task
	}
	return f
}

// MatchTask reports whether t matches f, per §4.7's conjunctive predicate
// XORed with f.Inverted.
func MatchTask(t Task, f Filter) bool {
	match := matchState(t.State, f.State) &&
		matchName(t.Name, f.Task.Name) &&
		matchToday(t.IsToday, f.Task.IsToday) &&
		matchDueDate(t.DueDate, f.Task.DueDate) &&
		matchTags(t.Tags, f.Task.Tags) &&
		matchPriority(t.Priority, f.Task.Priority)
	return match != f.Inverted
}

func matchState(actual State, want *State) bool {
	if want == nil {
		return true
	}
	if want.IsOpen() {
		return actual.IsOpen()
	}
	if want.IsClosed() {
		return actual.IsClosed()
	}
	return actual == *want
}

func matchName(actualName, wantName string) bool {
	if wantName == "" {
		return true
	}
	lowerActual := strings.ToLower(actualName)
	for _, word := range strings.Fields(strings.ToLower(wantName)) {
		if strings.Contains(lowerActual, word) {
			return true
		}
	}
	return false
}

func matchToday(actual, want bool) bool {
	return !want || actual
}

func matchDueDate(actual, want *Date) bool {
	if want == nil {
		return true
	}
	if actual == nil {
		return false
	}
	return actual.Equal(*want)
}

func matchTags(actualTags, wantTags []string) bool {
	if len(wantTags) == 0 {
		return true
	}
	for _, want := range wantTags {
		found := false
		lowerWant := strings.ToLower(want)
		for _, actual := range actualTags {
			if strings.Contains(strings.ToLower(actual), lowerWant) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchPriority(actual, want uint) bool {
	return want == 0 || actual == want
}

// FilterVaults walks the tree, keeping a Task iff it or any descendant
// matches (a subtask match pulls in its ancestors), keeping a
// Header/Directory/File iff it has any non-empty child after filtering,
// and keeping a Tracker iff its name matches by the same word-substring
// rule as task names. It returns nil if everything is pruned.
func FilterVaults(vaults Vaults, f Filter) Vaults {
	var out Vaults
	for _, v := range vaults {
		if filtered, ok := filterNode(v, f); ok {
			out = append(out, filtered)
		}
	}
	return out
}

func filterNode(n VaultNode, f Filter) (VaultNode, bool) {
	switch n.Kind {
	case NodeFile:
		entries, ok := filterEntries(n.Entries, f)
		if !ok {
			return VaultNode{}, false
		}
		n.Entries = entries
		return n, true
	default:
		var children []VaultNode
		for _, c := range n.Content {
			if filtered, ok := filterNode(c, f); ok {
				children = append(children, filtered)
			}
		}
		if len(children) == 0 {
			return VaultNode{}, false
		}
		n.Content = children
		return n, true
	}
}

func filterEntries(entries []FileEntry, f Filter) ([]FileEntry, bool) {
	var out []FileEntry
	for _, e := range entries {
		switch e.Kind {
		case EntryHeader:
			content, ok := filterEntries(e.Header.Content, f)
			if !ok {
				continue
			}
			h := *e.Header
			h.Content = content
			out = append(out, NewHeaderEntry(h))
		case EntryTask:
			if t, ok := filterTask(*e.TaskVal, f); ok {
				out = append(out, NewTaskEntry(t))
			}
		case EntryTracker:
			if matchName(e.TrackerVal.Name, f.Task.Name) {
				out = append(out, e)
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func filterTask(t Task, f Filter) (Task, bool) {
	var kept []Task
	for _, st := range t.Subtasks {
		if filteredSt, ok := filterTask(st, f); ok {
			kept = append(kept, filteredSt)
		}
	}
	selfMatches := MatchTask(t, f)
	if !selfMatches && len(kept) == 0 {
		return Task{}, false
	}
	t.Subtasks = kept
	return t, true
}

// FilterTasksToVec returns every task and subtask (independently) that
// matches f, in in-order traversal order.
func FilterTasksToVec(vaults Vaults, f Filter) []Task {
	var out []Task
	for _, v := range vaults {
		collectMatches(v, f, &out)
	}
	return out
}

func collectMatches(n VaultNode, f Filter, out *[]Task) {
	if n.Kind == NodeFile {
		collectEntryMatches(n.Entries, f, out)
		return
	}
	for _, c := range n.Content {
		collectMatches(c, f, out)
	}
}

func collectEntryMatches(entries []FileEntry, f Filter, out *[]Task) {
	for _, e := range entries {
		switch e.Kind {
		case EntryHeader:
			collectEntryMatches(e.Header.Content, f, out)
		case EntryTask:
			collectTaskMatches(*e.TaskVal, f, out)
		}
	}
}

func collectTaskMatches(t Task, f Filter, out *[]Task) {
	if MatchTask(t, f) {
		*out = append(*out, t)
	}
	for _, st := range t.Subtasks {
		collectTaskMatches(st, f, out)
	}
}
