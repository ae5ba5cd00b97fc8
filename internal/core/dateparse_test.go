package core

import (
	"testing"
	"time"
)

func refNow() time.Time {
	// A Wednesday.
	return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)
}

func TestParseDateToken_Numeric(t *testing.T) {
	now := refNow()

	d, ok := ParseDateToken("15/06/2024", false, now)
	if !ok {
		t.Fatalf("expected 15/06/2024 to parse")
	}
	if d.Time.Year() != 2024 || d.Time.Month() != time.June || d.Time.Day() != 15 {
		t.Fatalf("unexpected date: %v", d)
	}

	d, ok = ParseDateToken("2024/06/15", true, now)
	if !ok {
		t.Fatalf("expected american-format 2024/06/15 to parse")
	}
	if d.Time.Month() != time.June || d.Time.Day() != 15 {
		t.Fatalf("unexpected date: %v", d)
	}

	d, ok = ParseDateToken("25/12", false, now)
	if !ok {
		t.Fatalf("expected day/month with implied year to parse")
	}
	if d.Time.Year() != now.Year() || d.Time.Month() != time.December || d.Time.Day() != 25 {
		t.Fatalf("unexpected date: %v", d)
	}

	if _, ok := ParseDateToken("31/02/2024", false, now); ok {
		t.Fatalf("expected Feb 31 to be rejected")
	}
}

func TestParseDateToken_Weekday(t *testing.T) {
	now := refNow() // Wednesday 2024-05-01
	d, ok := ParseDateToken("monday", false, now)
	if !ok {
		t.Fatalf("expected weekday to parse")
	}
	if d.Time.Weekday() != time.Monday {
		t.Fatalf("expected next monday, got %v", d.Time.Weekday())
	}
	if !d.Time.After(now) {
		t.Fatalf("expected resolved monday to be in the future: %v", d.Time)
	}

	// On a Monday itself, "monday" must resolve to next week, not today.
	monday := time.Date(2024, time.April, 29, 9, 0, 0, 0, time.Local)
	d, ok = ParseDateToken("monday", false, monday)
	if !ok {
		t.Fatalf("expected weekday to parse")
	}
	wantNextMonday := time.Date(2024, time.May, 6, 0, 0, 0, 0, time.Local)
	if !d.Time.Equal(wantNextMonday) {
		t.Fatalf("expected monday-on-monday to roll to next week, got %v", d.Time)
	}
}

func TestParseDateToken_Adverb(t *testing.T) {
	now := refNow()
	d, ok := ParseDateToken("today", false, now)
	if !ok || d.Time.Day() != now.Day() {
		t.Fatalf("expected today to resolve to now's day")
	}
	d, ok = ParseDateToken("tomorrow", false, now)
	if !ok || d.Time.Day() != now.AddDate(0, 0, 1).Day() {
		t.Fatalf("expected tomorrow to resolve to now+1 day")
	}
}

func TestParseDateToken_QuantifiedGeneric(t *testing.T) {
	now := refNow()
	d, ok := ParseDateToken("3d", false, now)
	if !ok || d.Time.Day() != now.AddDate(0, 0, 3).Day() {
		t.Fatalf("expected 3d to add 3 days")
	}
	if _, ok := ParseDateToken("2x", false, now); ok {
		t.Fatalf("expected unknown unit to fail")
	}
}

func TestParseDateToken_Rejects(t *testing.T) {
	if _, ok := ParseDateToken("hello", false, refNow()); ok {
		t.Fatalf("expected plain word to fail")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	hh, mm, ss, ok := ParseTimeOfDay("9:05")
	if !ok || hh != 9 || mm != 5 || ss != 0 {
		t.Fatalf("unexpected parse: %d %d %d %v", hh, mm, ss, ok)
	}
	if _, _, _, ok := ParseTimeOfDay("24:00"); ok {
		t.Fatalf("expected out-of-range hour to fail")
	}
}

func TestFormatDate(t *testing.T) {
	d := NewDay(2024, time.June, 15)
	if got := FormatDate(d, false); got != "15/06/2024" {
		t.Fatalf("unexpected non-american format: %q", got)
	}
	if got := FormatDate(d, true); got != "2024/06/15" {
		t.Fatalf("unexpected american format: %q", got)
	}

	dt := NewDayTime(time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local))
	if got := FormatDate(dt, false); got != "15/06/2024 09:30:00" {
		t.Fatalf("unexpected daytime format: %q", got)
	}
}
