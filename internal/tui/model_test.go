package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaulttasks/vaulttasks/internal/core"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleVaults() core.Vaults {
	return core.Vaults{{
		Kind: core.NodeVault,
		Name: "vault",
		Content: []core.VaultNode{{
			Kind: core.NodeFile,
			Name: "f.md",
			Entries: []core.FileEntry{
				core.NewHeaderEntry(core.HeaderEntry{
					Level: 1,
					Name:  "Errands",
					Content: []core.FileEntry{
						core.NewTaskEntry(core.Task{
							Name:  "Buy milk",
							State: core.StateToDo,
							Tags:  []string{"errand"},
							Subtasks: []core.Task{
								{Name: "Whole milk", State: core.StateToDo},
							},
						}),
						core.NewTaskEntry(core.Task{Name: "Call dentist", State: core.StateDone}),
					},
				}),
			},
		}},
	}}
}

func TestNew_FlattensHeaderAndTasksInOrder(t *testing.T) {
	m := New(sampleVaults(), core.DefaultConfig(), nil)
	if len(m.rows) != 4 {
		t.Fatalf("expected 4 rows (header + 2 tasks + 1 subtask), got %d: %+v", len(m.rows), m.rows)
	}
	if !m.rows[0].isHeader || m.rows[0].header != "Errands" {
		t.Fatalf("expected first row to be the Errands header, got %+v", m.rows[0])
	}
	if m.rows[1].task.Name != "Buy milk" || m.rows[1].depth != 1 {
		t.Fatalf("unexpected second row: %+v", m.rows[1])
	}
	if m.rows[2].task.Name != "Whole milk" || m.rows[2].depth != 2 {
		t.Fatalf("expected subtask nested one level deeper, got %+v", m.rows[2])
	}
	if m.rows[3].task.Name != "Call dentist" {
		t.Fatalf("expected trailing sibling task, got %+v", m.rows[3])
	}
}

func TestRebuild_SearchNarrowsRows(t *testing.T) {
	m := New(sampleVaults(), core.DefaultConfig(), nil)
	m.search = "dentist"
	m.rebuild()

	var taskRows int
	for _, r := range m.rows {
		if !r.isHeader {
			taskRows++
		}
	}
	if taskRows != 1 {
		t.Fatalf("expected search to narrow to a single task row, got %d: %+v", taskRows, m.rows)
	}
}

func TestUpdateNormal_CursorMovementClampsAtBounds(t *testing.T) {
	m := New(sampleVaults(), core.DefaultConfig(), nil)

	moved, _ := m.updateNormal(keyMsg("k"))
	mm := moved.(Model)
	if mm.cursor != 0 {
		t.Fatalf("expected cursor to clamp at 0, got %d", mm.cursor)
	}

	for i := 0; i < len(m.rows)+2; i++ {
		moved, _ = mm.updateNormal(keyMsg("j"))
		mm = moved.(Model)
	}
	if mm.cursor != len(m.rows)-1 {
		t.Fatalf("expected cursor to clamp at the last row, got %d", mm.cursor)
	}
}

func TestStateFromLabel(t *testing.T) {
	cases := map[string]core.State{
		"done":       core.StateDone,
		"incomplete": core.StateIncomplete,
		"canceled":   core.StateCanceled,
		"todo":       core.StateToDo,
		"":           core.StateToDo,
	}
	for label, want := range cases {
		if got := stateFromLabel(label); got != want {
			t.Errorf("stateFromLabel(%q) = %v, want %v", label, got, want)
		}
	}
}
