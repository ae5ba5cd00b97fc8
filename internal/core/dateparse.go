package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// This file implements the date/time grammar. Parsing proceeds as a fixed,
// ordered sequence of try-functions, each either consuming the whole word
// and succeeding, or failing without side effects, so alternations are
// tried in order and a failed alternative never consumes input.

var numericDateExpr = regexp.MustCompile(`^(\d{1,4})[/-](\d{1,4})(?:[/-](\d{1,4}))?$`)

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
var weekdayAbbrevs = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// ParseDateToken tries to parse a single whitespace-delimited word as an
// absolute or relative date, in the priority order of §4.6 items 1-4. now is
// the reference "today" (local time); callers pass time.Now() in production
// and a fixed instant in tests.
func ParseDateToken(word string, americanFormat bool, now time.Time) (Date, bool) {
	if d, ok := parseNumericDate(word, americanFormat, now); ok {
		return d, true
	}
	if d, ok := parseWeekdayDate(word, now); ok {
		return d, true
	}
	if d, ok := parseAdverbDate(word, now); ok {
		return d, true
	}
	if d, ok := parseQuantifiedGenericDate(word, now); ok {
		return d, true
	}
	return Date{}, false
}

func parseNumericDate(word string, americanFormat bool, now time.Time) (Date, bool) {
	m := numericDateExpr.FindStringSubmatch(word)
	if m == nil {
		return Date{}, false
	}
	var tokens []int
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return Date{}, false
		}
		tokens = append(tokens, n)
	}
	if len(tokens) < 2 || len(tokens) > 3 {
		return Date{}, false
	}
	if !americanFormat {
		reverseInts(tokens)
	}
	if len(tokens) == 2 {
		tokens = append([]int{now.Year()}, tokens...)
	} else if tokens[0] < 100 {
		tokens[0] += 2000
	}
	year, month, day := tokens[0], tokens[1], tokens[2]
	if month < 1 || month > 12 {
		return Date{}, false
	}
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if candidate.Year() != year || int(candidate.Month()) != month || candidate.Day() != day {
		return Date{}, false
	}
	return Date{Kind: DateKindDay, Time: candidate}, true
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func parseWeekdayDate(word string, now time.Time) (Date, bool) {
	lower := strings.ToLower(word)
	target := -1
	for i, name := range weekdayNames {
		if lower == name {
			target = i + 1 // Monday == 1
			break
		}
	}
	if target == -1 {
		for i, abbr := range weekdayAbbrevs {
			if lower == abbr {
				target = i + 1
				break
			}
		}
	}
	if target == -1 {
		return Date{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	currentWeekday := isoWeekday(today.Weekday())
	delta := (target - currentWeekday + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return Date{Kind: DateKindDay, Time: today.AddDate(0, 0, delta)}, true
}

// isoWeekday maps time.Weekday (Sunday==0) to Monday==1..Sunday==7.
func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

func parseAdverbDate(word string, now time.Time) (Date, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch strings.ToLower(word) {
	case "today", "tdy", "tod":
		return Date{Kind: DateKindDay, Time: today}, true
	case "tomorrow", "tmr":
		return Date{Kind: DateKindDay, Time: today.AddDate(0, 0, 1)}, true
	default:
		return Date{}, false
	}
}

var quantifiedGenericExpr = regexp.MustCompile(`^(\d+)(d|day|days|w|week|weeks|m|month|months|y|year|years)$`)

func parseQuantifiedGenericDate(word string, now time.Time) (Date, bool) {
	m := quantifiedGenericExpr.FindStringSubmatch(strings.ToLower(word))
	if m == nil {
		return Date{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Date{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch m[2] {
	case "d", "day", "days":
		return Date{Kind: DateKindDay, Time: today.AddDate(0, 0, n)}, true
	case "w", "week", "weeks":
		currentWeekday := isoWeekday(today.Weekday())
		nextMonday := today.AddDate(0, 0, 8-currentWeekday)
		return Date{Kind: DateKindDay, Time: nextMonday.AddDate(0, 0, 7*(n-1))}, true
	case "m", "month", "months":
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local)
		return Date{Kind: DateKindDay, Time: firstOfMonth.AddDate(0, n, 0)}, true
	case "y", "year", "years":
		return Date{Kind: DateKindDay, Time: time.Date(today.Year()+n, time.January, 1, 0, 0, 0, 0, time.Local)}, true
	default:
		return Date{}, false
	}
}

var timeOfDayExpr = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?$`)

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS", 24-hour, zero-padded or not.
func ParseTimeOfDay(word string) (hour, minute, second int, ok bool) {
	m := timeOfDayExpr.FindStringSubmatch(word)
	if m == nil {
		return 0, 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, false
	}
	return hour, minute, second, true
}

// FormatDate renders a Date for the Writer (§4.4): "YYYY/MM/DD" when
// americanFormat, "DD/MM/YYYY" otherwise; a DayTime appends " HH:MM:SS".
func FormatDate(d Date, americanFormat bool) string {
	dateLayout := "02/01/2006"
	if americanFormat {
		dateLayout = "2006/01/02"
	}
	out := d.Time.Format(dateLayout)
	if d.Kind == DateKindDayTime {
		out += d.Time.Format(" 15:04:05")
	}
	return out
}
