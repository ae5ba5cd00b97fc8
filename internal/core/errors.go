package core

import "errors"

// Sentinel errors shared across the parser, writer, and scanner.
// ParseIncomplete and NotATask are recovered locally by the parsers that
// produce them and never escape to the Query API; the tracker parser does not
// return InvalidTracker: a row with a type-mismatched cell is reported
// through Warnf and recorded as a Blank row; LineOutOfRange/NotAFile surface
// to the writer's callers.
var (
	// ErrParseIncomplete means a sub-parser did not recognise its input.
	// The caller falls through to the next grammar alternative.
	ErrParseIncomplete = errors.New("core: parse incomplete")

	// ErrNotATask means a line lacks the "- [.]" task prefix.
	ErrNotATask = errors.New("core: not a task")

	// ErrInvalidTracker means a tracker row/column type mismatch was found.
	ErrInvalidTracker = errors.New("core: invalid tracker row")

	// ErrNotAFile is returned by the Writer when the target path is not a
	// regular file.
	ErrNotAFile = errors.New("core: not a regular file")

	// ErrLineOutOfRange is returned by the Writer when a task's recorded
	// line number exceeds the current length of the file.
	ErrLineOutOfRange = errors.New("core: line number out of range")
)
