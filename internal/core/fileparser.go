package core

import (
	"regexp"
	"strings"
	"time"
)

// This file implements the file parser & tree builder (§4.3). Headers and
// tasks are attached while scanning, through a header stack and per-header
// task stacks, into a pointer-based intermediate tree (so appending a sibling
// never invalidates an ancestor pointer, unlike appending directly into value
// slices), which is converted to the public value-typed FileEntry/Task tree
// once parsing of the file is complete.

var headerLineExpr = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
var fileTagLineExpr = regexp.MustCompile(`^#([_0-9A-Za-z]+)$`)
var fullLineCommentExpr = regexp.MustCompile(`^(?:<!--|<--).*-->$`)
var trackerStartLineExpr = regexp.MustCompile(`^Tracker:\s*(.+?)\s*\(([^)]*)\)\s*$`)

// Warnf is called by the builder for recoverable attachment anomalies
// (§4.3's "attach at the nearest shallower slot and log a warning" and the
// description-drop case). It defaults to a no-op; callers (the scanner,
// typically) may replace it to route into internal/logging.
var Warnf = func(format string, args ...interface{}) {}

type taskBuilder struct {
	task     Task
	depth    int
	children []*taskBuilder
}

func (b *taskBuilder) toTask() Task {
	t := b.task
	if len(b.children) > 0 {
		t.Subtasks = make([]Task, len(b.children))
		for i, c := range b.children {
			t.Subtasks[i] = c.toTask()
		}
	}
	return t
}

type entryBuilder struct {
	kind           EntryKind
	headerLevel    int
	headerName     string
	headerChildren []*entryBuilder
	task           *taskBuilder
	tracker        *Tracker
}

func (b *entryBuilder) toFileEntry() FileEntry {
	switch b.kind {
	case EntryHeader:
		content := make([]FileEntry, len(b.headerChildren))
		for i, c := range b.headerChildren {
			content[i] = c.toFileEntry()
		}
		return NewHeaderEntry(HeaderEntry{Level: b.headerLevel, Name: b.headerName, Content: content})
	case EntryTracker:
		return NewTrackerEntry(*b.tracker)
	default:
		return NewTaskEntry(b.task.toTask())
	}
}

type headerFrame struct {
	node      *entryBuilder
	taskStack []*taskBuilder
}

type treeBuilder struct {
	top          []*entryBuilder
	headerStack  []*headerFrame
	topTaskStack []*taskBuilder
	sourcePath   string
}

func newTreeBuilder(sourcePath string) *treeBuilder {
	return &treeBuilder{sourcePath: sourcePath}
}

func (b *treeBuilder) currentChildren() *[]*entryBuilder {
	if len(b.headerStack) == 0 {
		return &b.top
	}
	return &b.headerStack[len(b.headerStack)-1].node.headerChildren
}

func (b *treeBuilder) currentTaskStack() *[]*taskBuilder {
	if len(b.headerStack) == 0 {
		return &b.topTaskStack
	}
	return &b.headerStack[len(b.headerStack)-1].taskStack
}

func (b *treeBuilder) addHeader(level int, name string) {
	for len(b.headerStack) > 0 && b.headerStack[len(b.headerStack)-1].node.headerLevel >= level {
		b.headerStack = b.headerStack[:len(b.headerStack)-1]
	}
	node := &entryBuilder{kind: EntryHeader, headerLevel: level, headerName: name}
	parent := b.currentChildren()
	*parent = append(*parent, node)
	b.headerStack = append(b.headerStack, &headerFrame{node: node})
}

func (b *treeBuilder) addTask(depth int, task Task) {
	stack := b.currentTaskStack()
	for len(*stack) > 0 && (*stack)[len(*stack)-1].depth >= depth {
		*stack = (*stack)[:len(*stack)-1]
	}
	tb := &taskBuilder{task: task, depth: depth}
	if len(*stack) == 0 {
		if depth > 0 {
			Warnf("task %q at depth %d has no shallower parent; attaching at top level", task.Name, depth)
		}
		children := b.currentChildren()
		*children = append(*children, &entryBuilder{kind: EntryTask, task: tb})
	} else {
		parent := (*stack)[len(*stack)-1]
		if parent.depth != depth-1 {
			Warnf("task %q at depth %d attached under depth %d (nearest shallower slot)", task.Name, depth, parent.depth)
		}
		parent.children = append(parent.children, tb)
	}
	*stack = append(*stack, tb)
}

func (b *treeBuilder) addDescription(depth int, text string) {
	stack := b.currentTaskStack()
	for i := len(*stack) - 1; i >= 0; i-- {
		if (*stack)[i].depth <= depth {
			tb := (*stack)[i]
			if tb.task.Description == nil {
				d := text
				tb.task.Description = &d
			} else {
				joined := *tb.task.Description + "\n" + text
				tb.task.Description = &joined
			}
			return
		}
	}
	Warnf("description line %q has no enclosing task; dropped", text)
}

func (b *treeBuilder) addTracker(t Tracker) {
	children := b.currentChildren()
	tCopy := t
	*children = append(*children, &entryBuilder{kind: EntryTracker, tracker: &tCopy})
}

func (b *treeBuilder) build() []FileEntry {
	out := make([]FileEntry, len(b.top))
	for i, e := range b.top {
		out[i] = e.toFileEntry()
	}
	return out
}

// ParseFile implements the File Parser: a line-by-line scan of one .md
// file's content into an ordered sequence of FileEntry, followed by the
// cleaning pass (empty headers dropped) and, if enabled, file-tag
// propagation.
func ParseFile(content, sourcePath string, cfg Config, now time.Time) []FileEntry {
	if cfg.IndentLength <= 0 {
		cfg.IndentLength = 2
	}
	lines := strings.Split(content, "\n")
	b := newTreeBuilder(sourcePath)

	var fileTags []string
	seen := map[string]bool{}
	commentDepth := 0
	inCodeBlock := false

	i := 0
	for i < len(lines) {
		raw := strings.TrimRight(lines[i], "\r")
		left := strings.TrimLeft(raw, " \t")
		indent := len(raw) - len(left)

		if inCodeBlock {
			if isFenceLine(left) {
				inCodeBlock = false
			}
			i++
			continue
		}

		if commentDepth > 0 {
			if strings.Contains(left, "-->") {
				commentDepth--
				if commentDepth < 0 {
					commentDepth = 0
				}
			} else if isCommentStart(left) {
				commentDepth++
			}
			i++
			continue
		}

		if left == "" {
			i++
			continue
		}

		switch {
		case fullLineCommentExpr.MatchString(left):
			i++
		case isFenceLine(left):
			inCodeBlock = true
			i++
		case isCommentStart(left):
			commentDepth++
			i++
		case strings.Contains(left, "-->"):
			i++
		case fileTagLineExpr.MatchString(left):
			if m := fileTagLineExpr.FindStringSubmatch(left); cfg.FileTagsPropagation && m != nil {
				key := strings.ToLower(m[1])
				if !seen[key] {
					seen[key] = true
					fileTags = append(fileTags, m[1])
				}
			}
			i++
		case headerLineExpr.MatchString(left):
			m := headerLineExpr.FindStringSubmatch(left)
			b.addHeader(len(m[1]), strings.TrimSpace(m[2]))
			i++
		case trackerStartLineExpr.MatchString(left):
			m := trackerStartLineExpr.FindStringSubmatch(left)
			tr, consumed := parseTrackerBlock(lines, i, m[1], m[2], sourcePath, cfg, now)
			b.addTracker(tr)
			i += consumed
		default:
			if marker, _, ok := stripTaskPrefix(left); ok {
				_ = marker
				lineNo := i + 1
				depth := indent / cfg.IndentLength
				t, err := ParseTaskLine(left, cfg, sourcePath, &lineNo, now)
				if err == nil {
					b.addTask(depth, t)
				}
			} else if indent > 0 {
				depth := indent / cfg.IndentLength
				b.addDescription(depth, left)
			}
			i++
		}
	}

	entries := cleanEmptyHeaders(b.build())
	if cfg.FileTagsPropagation && len(fileTags) > 0 {
		propagateFileTags(entries, fileTags)
	}
	return entries
}

func isFenceLine(line string) bool {
	return strings.HasPrefix(line, "```")
}

func isCommentStart(line string) bool {
	return (strings.HasPrefix(line, "<!--") || strings.HasPrefix(line, "<--")) && !strings.Contains(line, "-->")
}

func cleanEmptyHeaders(entries []FileEntry) []FileEntry {
	var out []FileEntry
	for _, e := range entries {
		if e.Kind == EntryHeader {
			e.Header.Content = cleanEmptyHeaders(e.Header.Content)
			if len(e.Header.Content) == 0 {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func propagateFileTags(entries []FileEntry, tags []string) {
	for i := range entries {
		switch entries[i].Kind {
		case EntryHeader:
			propagateFileTags(entries[i].Header.Content, tags)
		case EntryTask:
			propagateTaskTags(entries[i].TaskVal, tags)
		}
	}
}

func propagateTaskTags(t *Task, tags []string) {
	for _, tag := range tags {
		found := false
		for _, existing := range t.Tags {
			if existing == tag {
				found = true
				break
			}
		}
		if !found {
			t.Tags = append(t.Tags, tag)
		}
	}
	for i := range t.Subtasks {
		propagateTaskTags(&t.Subtasks[i], tags)
	}
}
