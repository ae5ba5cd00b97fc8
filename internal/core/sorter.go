package core

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// This file implements the task sorter (§4.8). Name comparison uses
// golang.org/x/text/collate for locale-aware ordering that handles accents
// naturally, rather than a byte-wise strings.Compare.

// SortingMode selects the primary comparison key.
type SortingMode int

const (
	ByDueDate SortingMode = iota
	ByName
)

// Sorter holds the collator used for name comparisons, so repeated sorts
// don't rebuild one per call.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter builds a Sorter for the given BCP 47 locale tag (e.g.
// language.English); an empty tag falls back to language.Und.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// Sort stably orders tasks by mode, with the tiebreaker chain from §4.8:
// state, then the other mode, then priority ascending.
func (s *Sorter) Sort(tasks []Task, mode SortingMode) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return s.less(tasks[i], tasks[j], mode)
	})
}

func (s *Sorter) less(a, b Task, mode SortingMode) bool {
	if c := s.compareByMode(a, b, mode); c != 0 {
		return c < 0
	}
	if c := a.State.orderRank() - b.State.orderRank(); c != 0 {
		return c < 0
	}
	other := ByName
	if mode == ByName {
		other = ByDueDate
	}
	if c := s.compareByMode(a, b, other); c != 0 {
		return c < 0
	}
	return a.Priority < b.Priority
}

func (s *Sorter) compareByMode(a, b Task, mode SortingMode) int {
	if mode == ByDueDate {
		return compareDueDate(a.DueDate, b.DueDate)
	}
	return s.collator.CompareString(a.Name, b.Name)
}

// compareDueDate orders Some(...) before None, chronologically within Some.
func compareDueDate(a, b *Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
