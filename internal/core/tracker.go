package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// This file implements the tracker parser/writer (§4.5). A tracker
// occupies a fixed three-line-plus-rows syntactic unit: the
// "Tracker: name (start-date)" line, a header row whose first cell is the
// frequency expression and remaining cells are category names, a separator
// row, then one data row per occurrence.

// parseTrackerBlock parses the tracker starting at lines[startIdx] (the
// "Tracker: ..." line itself) and returns the Tracker plus the number of
// source lines it consumed, so the caller can advance past the whole block.
func parseTrackerBlock(lines []string, startIdx int, name, startDateStr, sourcePath string, cfg Config, now time.Time) (Tracker, int) {
	tr := Tracker{Name: strings.TrimSpace(name), SourcePath: sourcePath, LineNumber: startIdx + 1}
	if d, ok := ParseDateToken(strings.TrimSpace(startDateStr), cfg.UseAmericanFormat, now); ok {
		tr.StartDate = d
	} else {
		tr.StartDate = NewDay(now.Year(), now.Month(), now.Day())
	}

	consumed := 1
	if startIdx+1 >= len(lines) {
		return tr, consumed
	}
	headerCells := splitTableRow(lines[startIdx+1])
	if len(headerCells) == 0 {
		return tr, consumed
	}
	consumed++

	freq, ok := parseFrequency(headerCells[0])
	if !ok {
		freq = Frequency{Unit: FreqDays, N: 1}
	}
	tr.Frequency = freq

	catKinds := make([]TrackerEntryKind, len(headerCells)-1)
	for _, cellName := range headerCells[1:] {
		tr.Categories = append(tr.Categories, TrackerCategory{Name: strings.TrimSpace(cellName)})
	}

	if startIdx+2 < len(lines) && looksLikeTableRow(lines[startIdx+2]) {
		consumed++
	}

	rowIdx := uint64(0)
	li := startIdx + 3
	for li < len(lines) && looksLikeTableRow(lines[li]) {
		cells := splitTableRow(lines[li])
		consumed++
		if len(cells) == 0 {
			li++
			continue
		}

		dateStr := strings.TrimSpace(cells[0])
		if dateStr != "" {
			if rowDate, ok := ParseDateToken(dateStr, cfg.UseAmericanFormat, now); ok {
				expected := addFrequency(tr.StartDate.Time, freq, rowIdx)
				for rowDate.Time.After(expected) {
					appendBlankRow(tr.Categories)
					rowIdx++
					expected = addFrequency(tr.StartDate.Time, freq, rowIdx)
				}
			}
		}

		var values []string
		if len(cells) > 1 {
			values = cells[1:]
		}
		if !appendDataRow(tr.Categories, catKinds, values) {
			Warnf("tracker %q: row %d has a type-mismatched cell; recorded as blank", tr.Name, rowIdx+1)
		}
		rowIdx++
		li++
	}
	tr.Length = int(rowIdx)
	return tr, consumed
}

func splitTableRow(line string) []string {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "|") {
		return nil
	}
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func looksLikeTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func appendBlankRow(categories []TrackerCategory) {
	for i := range categories {
		categories[i].Entries = append(categories[i].Entries, TrackerEntry{Kind: TrackerEntryBlank})
	}
}

// appendDataRow appends one cell per category, inferring/checking each
// category's locked cell type. If any cell conflicts with its category's
// already-locked type, the conformance failure is resolved by recording the
// whole row as Blank rather than aborting the tracker (an explicit
// implementation choice under §4.5). Returns false when that fallback fired.
func appendDataRow(categories []TrackerCategory, catKinds []TrackerEntryKind, values []string) bool {
	kinds := make([]TrackerEntryKind, len(categories))
	ok := true
	for i := range categories {
		var raw string
		if i < len(values) {
			raw = values[i]
		}
		k := classifyCell(raw)
		switch {
		case catKinds[i] == TrackerEntryBlank:
			kinds[i] = k
		case k == TrackerEntryBlank:
			kinds[i] = TrackerEntryBlank
		case k != catKinds[i]:
			ok = false
		default:
			kinds[i] = k
		}
	}
	if !ok {
		appendBlankRow(categories)
		return false
	}
	for i := range categories {
		var raw string
		if i < len(values) {
			raw = values[i]
		}
		categories[i].Entries = append(categories[i].Entries, cellToEntry(raw, kinds[i]))
		if catKinds[i] == TrackerEntryBlank && kinds[i] != TrackerEntryBlank {
			catKinds[i] = kinds[i]
		}
	}
	return true
}

func classifyCell(raw string) TrackerEntryKind {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TrackerEntryBlank
	}
	if _, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return TrackerEntryScore
	}
	lower := strings.ToLower(raw)
	if lower == "[x]" || lower == "[ ]" {
		return TrackerEntryBool
	}
	return TrackerEntryNote
}

func cellToEntry(raw string, kind TrackerEntryKind) TrackerEntry {
	raw = strings.TrimSpace(raw)
	switch kind {
	case TrackerEntryScore:
		n, _ := strconv.ParseInt(raw, 10, 32)
		return TrackerEntry{Kind: TrackerEntryScore, Score: int32(n)}
	case TrackerEntryBool:
		return TrackerEntry{Kind: TrackerEntryBool, Bool: strings.ToLower(raw) == "[x]"}
	case TrackerEntryNote:
		return TrackerEntry{Kind: TrackerEntryNote, Note: raw}
	default:
		return TrackerEntry{Kind: TrackerEntryBlank}
	}
}

// parseFrequency implements the frequency grammar: "every N unit | every
// unit | daily | hourly | weekly | monthly | yearly".
func parseFrequency(text string) (Frequency, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch lower {
	case "daily":
		return Frequency{Unit: FreqDays, N: 1}, true
	case "hourly":
		return Frequency{Unit: FreqHours, N: 1}, true
	case "weekly":
		return Frequency{Unit: FreqWeeks, N: 1}, true
	case "monthly":
		return Frequency{Unit: FreqMonths, N: 1}, true
	case "yearly":
		return Frequency{Unit: FreqYears, N: 1}, true
	}
	if !strings.HasPrefix(lower, "every ") {
		return Frequency{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(lower, "every "))
	switch len(fields) {
	case 1:
		if unit, ok := parseFrequencyUnit(fields[0]); ok {
			return Frequency{Unit: unit, N: 1}, true
		}
	case 2:
		n, err := strconv.ParseUint(fields[0], 10, 64)
		if err == nil {
			if unit, ok := parseFrequencyUnit(fields[1]); ok {
				return Frequency{Unit: unit, N: n}, true
			}
		}
	}
	return Frequency{}, false
}

func parseFrequencyUnit(word string) (FrequencyUnit, bool) {
	switch word {
	case "minute", "minutes":
		return FreqMinutes, true
	case "hour", "hours", "h":
		return FreqHours, true
	case "day", "days", "d":
		return FreqDays, true
	case "week", "weeks", "w":
		return FreqWeeks, true
	case "month", "months", "m":
		return FreqMonths, true
	case "year", "years", "y":
		return FreqYears, true
	default:
		return 0, false
	}
}

// FrequencyString is the inverse of parseFrequency, used by the serialiser.
func FrequencyString(f Frequency) string {
	if f.N == 1 {
		switch f.Unit {
		case FreqDays:
			return "daily"
		case FreqHours:
			return "hourly"
		case FreqWeeks:
			return "weekly"
		case FreqMonths:
			return "monthly"
		case FreqYears:
			return "yearly"
		}
	}
	return fmt.Sprintf("every %d %s", f.N, frequencyUnitWord(f.Unit, f.N != 1))
}

func frequencyUnitWord(u FrequencyUnit, plural bool) string {
	switch u {
	case FreqMinutes:
		if plural {
			return "minutes"
		}
		return "minute"
	case FreqHours:
		if plural {
			return "hours"
		}
		return "hour"
	case FreqWeeks:
		if plural {
			return "weeks"
		}
		return "week"
	case FreqMonths:
		if plural {
			return "months"
		}
		return "month"
	case FreqYears:
		if plural {
			return "years"
		}
		return "year"
	default:
		if plural {
			return "days"
		}
		return "day"
	}
}

// addFrequency computes start_date + n*frequency, per §4.5's "Date
// arithmetic for month/year frequencies follows calendar addition with
// day-clamping".
func addFrequency(start time.Time, freq Frequency, n uint64) time.Time {
	count := int(freq.N * n)
	switch freq.Unit {
	case FreqMinutes:
		return start.Add(time.Duration(count) * time.Minute)
	case FreqHours:
		return start.Add(time.Duration(count) * time.Hour)
	case FreqDays:
		return start.AddDate(0, 0, count)
	case FreqWeeks:
		return start.AddDate(0, 0, count*7)
	case FreqMonths:
		return addMonthsClamped(start, count)
	case FreqYears:
		return addMonthsClamped(start, count*12)
	default:
		return start
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	y += total / 12
	rem := total % 12
	if rem < 0 {
		rem += 12
		y--
	}
	month := time.Month(rem + 1)
	if last := daysInMonth(y, month); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, month, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// AddBlanks extends tr with a Blank row for every occurrence up to now, then
// with further Blank rows until at least extraBlanks trailing rows are blank;
// blank rows added up to now count towards that (§4.5's add_blanks, run by the
// CLI's tracker log and the daemon's core.log_tracker before WriteTracker).
func AddBlanks(tr Tracker, now time.Time, extraBlanks int) Tracker {
	out := tr
	out.Categories = make([]TrackerCategory, len(tr.Categories))
	for i, c := range tr.Categories {
		out.Categories[i] = TrackerCategory{Name: c.Name, Entries: append([]TrackerEntry(nil), c.Entries...)}
	}

	rowIdx := uint64(out.Length)
	for {
		rowTime := addFrequency(out.StartDate.Time, out.Frequency, rowIdx)
		if rowTime.After(now) {
			break
		}
		appendBlankRow(out.Categories)
		rowIdx++
	}
	for trailingBlankCount(out) < extraBlanks {
		appendBlankRow(out.Categories)
		rowIdx++
	}
	out.Length = int(rowIdx)
	return out
}

func trailingBlankCount(tr Tracker) int {
	if len(tr.Categories) == 0 {
		return 0
	}
	count := 0
	entries := tr.Categories[0].Entries
	for i := len(entries) - 1; i >= 0; i-- {
		allBlank := true
		for _, c := range tr.Categories {
			if c.Entries[i].Kind != TrackerEntryBlank {
				allBlank = false
				break
			}
		}
		if !allBlank {
			break
		}
		count++
	}
	return count
}

// SerializeTracker renders tr as a GitHub-flavoured Markdown table: the
// "Tracker: name (start-date)" line, the header row, the separator row, and
// one data row per occurrence.
func SerializeTracker(tr Tracker, cfg Config) []string {
	lines := make([]string, 0, tr.Length+3)
	lines = append(lines, fmt.Sprintf("Tracker: %s (%s)", tr.Name, FormatDate(tr.StartDate, cfg.UseAmericanFormat)))

	header := []string{FrequencyString(tr.Frequency)}
	sep := []string{"------"}
	for _, c := range tr.Categories {
		header = append(header, c.Name)
		sep = append(sep, "------")
	}
	lines = append(lines, "| "+strings.Join(header, " | ")+" |")
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")

	for row := 0; row < tr.Length; row++ {
		rowDate := Date{Kind: DateKindDay, Time: addFrequency(tr.StartDate.Time, tr.Frequency, uint64(row))}
		cells := []string{FormatDate(rowDate, cfg.UseAmericanFormat)}
		for _, c := range tr.Categories {
			cells = append(cells, entryToCell(c.Entries[row]))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return lines
}

func entryToCell(e TrackerEntry) string {
	switch e.Kind {
	case TrackerEntryScore:
		return strconv.Itoa(int(e.Score))
	case TrackerEntryBool:
		if e.Bool {
			return "[x]"
		}
		return "[ ]"
	case TrackerEntryNote:
		return e.Note
	default:
		return ""
	}
}
