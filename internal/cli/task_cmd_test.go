package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/vaulttasks/vaulttasks/internal/core"
)

func TestLocaleTag_FallsBackToUndForEmptyOrBogus(t *testing.T) {
	if got := localeTag(""); got != language.Und {
		t.Fatalf("expected language.Und for empty tag, got %v", got)
	}
	if got := localeTag("not-a-real-locale-tag-!!"); got != language.Und {
		t.Fatalf("expected language.Und for an unparseable tag, got %v", got)
	}
	if got := localeTag("fr-FR"); got != language.MustParse("fr-FR") {
		t.Fatalf("expected fr-FR to parse through, got %v", got)
	}
}

func TestSortModeFromFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("sort", "name", "")

	if got := sortModeFromFlag(fs); got != core.ByName {
		t.Fatalf("expected ByName default, got %v", got)
	}

	fs.Set("sort", "due-date")
	if got := sortModeFromFlag(fs); got != core.ByDueDate {
		t.Fatalf("expected ByDueDate, got %v", got)
	}
}

func sampleVaultsWithTrackerAndTask() core.Vaults {
	line := 3
	return core.Vaults{{
		Kind: core.NodeVault,
		Name: "vault",
		Content: []core.VaultNode{{
			Kind: core.NodeFile,
			Name: "f.md",
			Entries: []core.FileEntry{
				core.NewTaskEntry(core.Task{
					Name:       "Buy milk",
					SourcePath: "f.md",
					LineNumber: &line,
					State:      core.StateToDo,
				}),
				core.NewTrackerEntry(core.Tracker{
					Name:       "Reading",
					SourcePath: "f.md",
					Categories: []core.TrackerCategory{
						{Name: "Pages", Entries: []core.TrackerEntry{{Kind: core.TrackerEntryScore, Score: 10}}},
					},
				}),
			},
		}},
	}}
}

func TestFindTask_MatchesOnPathAndLine(t *testing.T) {
	vaults := sampleVaultsWithTrackerAndTask()
	task, ok := findTask(vaults, "f.md", 3)
	if !ok || task.Name != "Buy milk" {
		t.Fatalf("expected to find Buy milk at f.md:3, got %+v ok=%v", task, ok)
	}

	_, ok = findTask(vaults, "f.md", 99)
	if ok {
		t.Fatalf("expected no match for a non-existent line")
	}
}

func TestFindTracker_MatchesByName(t *testing.T) {
	vaults := sampleVaultsWithTrackerAndTask()
	tracker, ok := findTracker(vaults, "Reading")
	if !ok || tracker.Name != "Reading" {
		t.Fatalf("expected to find Reading tracker, got %+v ok=%v", tracker, ok)
	}

	_, ok = findTracker(vaults, "Nonexistent")
	if ok {
		t.Fatalf("expected no match for an unknown tracker name")
	}
}

func TestSetLastOccurrence_ClassifiesValue(t *testing.T) {
	tr := core.Tracker{Categories: []core.TrackerCategory{
		{Name: "Pages", Entries: []core.TrackerEntry{{Kind: core.TrackerEntryNote, Note: "placeholder"}}},
	}}

	setLastOccurrence(&tr, "Pages", "42")
	last := tr.Categories[0].Entries[0]
	if last.Kind != core.TrackerEntryScore || last.Score != 42 {
		t.Fatalf("expected a score entry, got %+v", last)
	}

	setLastOccurrence(&tr, "Pages", "x")
	last = tr.Categories[0].Entries[0]
	if last.Kind != core.TrackerEntryBool || !last.Bool {
		t.Fatalf("expected a true bool entry, got %+v", last)
	}

	setLastOccurrence(&tr, "Pages", "rested well")
	last = tr.Categories[0].Entries[0]
	if last.Kind != core.TrackerEntryNote || last.Note != "rested well" {
		t.Fatalf("expected a note entry, got %+v", last)
	}
}
