package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// This file implements the task token grammar (§4.2): the per-word
// tokenizer that splits a task line's trailing tokens into name words,
// tags, priority, completion, and the "@today" marker.

var tagExpr = regexp.MustCompile(`^#([_0-9A-Za-z]+)$`)
var priorityExpr = regexp.MustCompile(`^p(-?\d+)$`)
var completionExpr = regexp.MustCompile(`^c(\d+)$`)
var stateReassertExpr = regexp.MustCompile(`^\[(.)\]$`)

// markerState maps a single task-marker rune to a State, defaulting to
// StateDone for any marker outside the configured set (§4.2: "any other
// character maps to Done").
func markerState(marker rune, markers TaskStateMarkers) State {
	switch marker {
	case markers.ToDo:
		return StateToDo
	case markers.Incomplete:
		return StateIncomplete
	case markers.Canceled:
		return StateCanceled
	default:
		return StateDone
	}
}

// stateMarker is the inverse of markerState, used by the Writer.
func stateMarker(s State, markers TaskStateMarkers) rune {
	switch s {
	case StateToDo:
		return markers.ToDo
	case StateIncomplete:
		return markers.Incomplete
	case StateCanceled:
		return markers.Canceled
	default:
		return markers.Done
	}
}

// ParseTaskLine parses a single task line (without its leading indentation,
// which the File Parser strips and records separately as indent depth) into
// a Task. Fails with ErrNotATask when the "- [.]" prefix is absent.
func ParseTaskLine(line string, cfg Config, sourcePath string, lineNumber *int, now time.Time) (Task, error) {
	marker, rest, ok := stripTaskPrefix(line)
	if !ok {
		return Task{}, ErrNotATask
	}

	task := Task{
		State:      markerState(marker, cfg.TaskStateMarkers),
		SourcePath: sourcePath,
		LineNumber: lineNumber,
	}

	var dateTok *Date
	var haveTime bool
	var hh, mm, ss int
	var nameWords []string

	for _, word := range strings.Fields(rest) {
		if word == "" {
			continue
		}
		if d, ok := ParseDateToken(word, cfg.UseAmericanFormat, now); ok && dateTok == nil {
			dateTok = &d
			continue
		}
		if h, m, s, ok := ParseTimeOfDay(word); ok && !haveTime {
			hh, mm, ss, haveTime = h, m, s, true
			continue
		}
		if m := tagExpr.FindStringSubmatch(word); m != nil {
			task.Tags = append(task.Tags, m[1])
			continue
		}
		if m := priorityExpr.FindStringSubmatch(word); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 0 {
				task.Priority = uint(n)
			}
			continue
		}
		if m := completionExpr.FindStringSubmatch(word); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 0 && n <= 100 {
				c := uint(n)
				task.Completion = &c
			}
			continue
		}
		if word == "@t" || word == "@today" {
			task.IsToday = true
			continue
		}
		if m := stateReassertExpr.FindStringSubmatch(word); m != nil && len([]rune(m[1])) == 1 {
			task.State = markerState([]rune(m[1])[0], cfg.TaskStateMarkers)
			continue
		}
		nameWords = append(nameWords, word)
	}

	task.Name = strings.Join(nameWords, " ")
	task.DueDate = combineDateTime(dateTok, haveTime, hh, mm, ss, now)
	return task, nil
}

// stripTaskPrefix recognises "- [<marker>] <rest>" and returns the marker
// rune plus whatever follows. The marker is exactly one rune. Absence of
// the prefix fails.
func stripTaskPrefix(line string) (marker rune, rest string, ok bool) {
	if !strings.HasPrefix(line, "- [") {
		return 0, "", false
	}
	runes := []rune(line[3:])
	if len(runes) < 2 || runes[1] != ']' {
		return 0, "", false
	}
	marker = runes[0]
	rest = strings.TrimPrefix(string(runes[2:]), " ")
	return marker, rest, true
}

func combineDateTime(dateTok *Date, haveTime bool, hh, mm, ss int, now time.Time) *Date {
	switch {
	case dateTok != nil && haveTime:
		t := time.Date(dateTok.Time.Year(), dateTok.Time.Month(), dateTok.Time.Day(), hh, mm, ss, 0, time.Local)
		d := NewDayTime(t)
		return &d
	case dateTok != nil:
		return dateTok
	case haveTime:
		t := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, ss, 0, time.Local)
		d := NewDayTime(t)
		return &d
	default:
		return nil
	}
}
