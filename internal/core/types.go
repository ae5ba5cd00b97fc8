// Package core implements the vault parser, the task/tracker data model and
// its round-trip writer, and the query engine described by the project
// specification. It is pure data and parsing logic: no goroutines, no
// network I/O, and the only filesystem access is the scanner's directory
// walk and the writer's file rewrite.
package core

import (
	"time"
)

// State is a task's lifecycle state.
type State int

const (
	StateToDo State = iota
	StateDone
	StateIncomplete
	StateCanceled
)

// orderRank returns the Sorter's tiebreaker ordering:
// Incomplete < ToDo < Canceled < Done.
func (s State) orderRank() int {
	switch s {
	case StateIncomplete:
		return 0
	case StateToDo:
		return 1
	case StateCanceled:
		return 2
	case StateDone:
		return 3
	default:
		return 1
	}
}

// IsOpen reports whether the state belongs to the "open" equivalence class
// {ToDo, Incomplete} used by the Filter Engine.
func (s State) IsOpen() bool {
	return s == StateToDo || s == StateIncomplete
}

// IsClosed reports whether the state belongs to the "closed" equivalence
// class {Done, Canceled}.
func (s State) IsClosed() bool {
	return s == StateDone || s == StateCanceled
}

func (s State) String() string {
	switch s {
	case StateToDo:
		return "ToDo"
	case StateDone:
		return "Done"
	case StateIncomplete:
		return "Incomplete"
	case StateCanceled:
		return "Canceled"
	default:
		return "ToDo"
	}
}

// DateKind distinguishes a calendar-only date from a date+time value.
type DateKind int

const (
	DateKindDay DateKind = iota
	DateKindDayTime
)

// Date is a sum type: Day(calendar date) or DayTime(calendar date + time of
// day). The zero value is not a valid Date on its own; absence of a date is
// represented by a nil *Date in callers, not by a zero Date.
type Date struct {
	Kind DateKind
	Time time.Time
}

// NewDay builds a Day date at midnight, local time.
func NewDay(year int, month time.Month, day int) Date {
	return Date{Kind: DateKindDay, Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// NewDayTime builds a DayTime date.
func NewDayTime(t time.Time) Date {
	return Date{Kind: DateKindDayTime, Time: t}
}

// Compare orders dates chronologically; a Day compares as midnight of that
// day against a DayTime on the same day (§3 Invariants).
func (d Date) Compare(other Date) int {
	switch {
	case d.Time.Before(other.Time):
		return -1
	case d.Time.After(other.Time):
		return 1
	default:
		return 0
	}
}

// Equal requires both the kind and the value to match, as used by the
// Filter Engine's exact due-date comparison (§4.7).
func (d Date) Equal(other Date) bool {
	return d.Kind == other.Kind && d.Time.Equal(other.Time)
}

// String renders the date in ISO-ish form for debugging/display; file I/O
// formatting goes through FormatDate instead, which honors use_american_format.
func (d Date) String() string {
	if d.Kind == DateKindDayTime {
		return d.Time.Format("2006-01-02 15:04:05")
	}
	return d.Time.Format("2006-01-02")
}

// TaskStateMarkers maps each State to the single marker character used
// inside "- [<marker>]".
type TaskStateMarkers struct {
	ToDo       rune
	Done       rune
	Incomplete rune
	Canceled   rune
}

// DefaultTaskStateMarkers returns the default state marker set: ` `, `x`,
// `/`, `-` for ToDo/Done/Incomplete/Canceled respectively.
func DefaultTaskStateMarkers() TaskStateMarkers {
	return TaskStateMarkers{ToDo: ' ', Done: 'x', Incomplete: '/', Canceled: '-'}
}

// Config carries the behavioral knobs §6 calls out as core-consumed
// configuration. UI/CLI-only configuration is not part of this struct.
type Config struct {
	VaultPaths          []string
	ParseDotFiles       bool
	Ignored             []string
	IndentLength         int
	UseAmericanFormat    bool
	FileTagsPropagation  bool
	TaskStateMarkers     TaskStateMarkers
	TrackerExtraBlanks   int
}

// DefaultConfig returns the baseline configuration assumed when no
// config file, environment variable, or flag overrides a setting.
func DefaultConfig() Config {
	return Config{
		ParseDotFiles:       false,
		IndentLength:        2,
		UseAmericanFormat:   false,
		FileTagsPropagation: true,
		TaskStateMarkers:    DefaultTaskStateMarkers(),
		TrackerExtraBlanks:  3,
	}
}

// Task is a leaf of the parsed tree: a single checklist line plus its
// nested subtasks.
type Task struct {
	Name         string
	State        State
	DueDate      *Date
	Priority     uint
	Completion   *uint
	Tags         []string
	IsToday      bool
	Description  *string
	SourcePath   string
	LineNumber   *int
	Subtasks     []Task

	// ID is an optional handle for ambient collaborators (history, daemon).
	// Nothing in this module sets it: parsed tasks and tasks added through
	// the CLI both carry an empty ID.
	ID string
}

// EntryKind discriminates the FileEntry sum type.
type EntryKind int

const (
	EntryHeader EntryKind = iota
	EntryTask
	EntryTracker
)

// HeaderEntry is a Markdown header and its nested content, in source order.
type HeaderEntry struct {
	Level   int
	Name    string
	Content []FileEntry
}

// FileEntry is a tagged union over {Header, Task, Tracker}; exactly one of
// Header/TaskVal/TrackerVal is non-nil, selected by Kind.
type FileEntry struct {
	Kind       EntryKind
	Header     *HeaderEntry
	TaskVal    *Task
	TrackerVal *Tracker
}

// NewHeaderEntry wraps a header.
func NewHeaderEntry(h HeaderEntry) FileEntry { return FileEntry{Kind: EntryHeader, Header: &h} }

// NewTaskEntry wraps a task.
func NewTaskEntry(t Task) FileEntry { return FileEntry{Kind: EntryTask, TaskVal: &t} }

// NewTrackerEntry wraps a tracker.
func NewTrackerEntry(t Tracker) FileEntry { return FileEntry{Kind: EntryTracker, TrackerVal: &t} }

// NodeKind discriminates the VaultNode sum type.
type NodeKind int

const (
	NodeVault NodeKind = iota
	NodeDirectory
	NodeFile
)

// VaultNode is a tagged union over {Vault, Directory, File}.
type VaultNode struct {
	Kind    NodeKind
	Name    string
	Path    string
	Content []VaultNode // populated for Vault/Directory
	Entries []FileEntry // populated for File
}

// Vaults is the top-level container: an ordered sequence of VaultNode,
// in practice all NodeVault.
type Vaults []VaultNode

// FrequencyUnit enumerates the tracker frequency units.
type FrequencyUnit int

const (
	FreqMinutes FrequencyUnit = iota
	FreqHours
	FreqDays
	FreqWeeks
	FreqMonths
	FreqYears
)

// Frequency is start_date + Frequency*n = n-th tracker occurrence.
type Frequency struct {
	Unit FrequencyUnit
	N    uint64
}

// TrackerEntryKind discriminates the TrackerEntry sum type.
type TrackerEntryKind int

const (
	TrackerEntryBlank TrackerEntryKind = iota
	TrackerEntryScore
	TrackerEntryBool
	TrackerEntryNote
)

// TrackerEntry is a single habit-tracker cell.
type TrackerEntry struct {
	Kind  TrackerEntryKind
	Score int32
	Bool  bool
	Note  string
}

// TrackerCategory is one column of a tracker table.
type TrackerCategory struct {
	Name    string
	Entries []TrackerEntry
}

// Tracker is a multi-line habit-tracking table (§4.5).
type Tracker struct {
	Name       string
	SourcePath string
	LineNumber int
	StartDate  Date
	Length     int
	Frequency  Frequency
	Categories []TrackerCategory
}

// Filter is a predicate carrier produced by parsing a user search string
// (§4.7): an exemplar Task supplying per-field constraints, an inversion
// flag, and a separately-tracked state axis (nil means "state not part of
// the query", distinct from the exemplar Task's own zero-value State).
type Filter struct {
	Task     Task
	Inverted bool
	State    *State
}
