package core

import "testing"

type collectingVisitor struct {
	tasks    []string
	trackers []string
	enterAll bool
}

func (v *collectingVisitor) VisitVault(_ VaultNode) bool     { return true }
func (v *collectingVisitor) VisitDirectory(_ VaultNode) bool { return true }
func (v *collectingVisitor) VisitFile(_ VaultNode) bool      { return true }
func (v *collectingVisitor) VisitHeader(_ HeaderEntry) bool  { return true }
func (v *collectingVisitor) VisitTask(t Task) bool {
	v.tasks = append(v.tasks, t.Name)
	return v.enterAll
}
func (v *collectingVisitor) VisitTracker(tr Tracker) bool {
	v.trackers = append(v.trackers, tr.Name)
	return true
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	vaults := buildSampleVaults()
	v := &collectingVisitor{enterAll: true}
	Walk(vaults, v)
	if len(v.tasks) != 2 {
		t.Fatalf("expected parent and subtask visited, got %+v", v.tasks)
	}
	if v.tasks[0] != "Buy milk" || v.tasks[1] != "Whole milk" {
		t.Fatalf("unexpected visit order: %+v", v.tasks)
	}
}

func TestWalk_StopsDescentWhenVisitReturnsFalse(t *testing.T) {
	vaults := buildSampleVaults()
	v := &collectingVisitor{enterAll: false}
	Walk(vaults, v)
	if len(v.tasks) != 1 || v.tasks[0] != "Buy milk" {
		t.Fatalf("expected descent into subtasks to stop, got %+v", v.tasks)
	}
}

func TestWalk_VisitsTrackers(t *testing.T) {
	vaults := Vaults{{
		Kind: NodeVault,
		Name: "vault",
		Content: []VaultNode{{
			Kind: NodeFile,
			Name: "f.md",
			Entries: []FileEntry{
				NewTrackerEntry(Tracker{Name: "Mood"}),
			},
		}},
	}}
	v := &collectingVisitor{enterAll: true}
	Walk(vaults, v)
	if len(v.trackers) != 1 || v.trackers[0] != "Mood" {
		t.Fatalf("expected tracker visited, got %+v", v.trackers)
	}
}
