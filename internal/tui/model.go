// Package tui implements the bubbletea terminal browser over the vault task
// tree. It is a pure consumer of internal/core's query and filter helpers:
// it holds no parsing logic of its own, and flattens the tree into a
// scrollable, searchable row list in pre-order.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/catppuccin/go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaulttasks/vaulttasks/internal/core"
)

var palette = catppuccin.Mocha

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(palette.Base().Hex)).
			Background(lipgloss.Color(palette.Mauve().Hex)).
			Padding(0, 1)

	normalRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Text().Hex)).
			PaddingLeft(1)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Base().Hex)).
				Background(lipgloss.Color(palette.Lavender().Hex)).
				PaddingLeft(1)

	doneRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Overlay0().Hex)).
			Strikethrough(true).
			PaddingLeft(1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Sky().Hex))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Subtext0().Hex)).
			PaddingTop(1)

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Yellow().Hex))
)

// row is one flattened, renderable line: either a header or a task,
// produced by flattenNode/flattenEntries/flattenTask in pre-order.
type row struct {
	isHeader bool
	depth    int
	header   string
	task     core.Task
}

// Model is the bubbletea application state. It holds the full scanned
// vaults and keeps a rebuilt, filtered/sorted flat list on every search
// keystroke; internal/core itself is stateless.
type Model struct {
	vaults     core.Vaults
	cfg        core.Config
	sorter     *core.Sorter
	search     string
	searching  bool
	rows       []row
	cursor     int
	height     int
	statusLine string
	quitting   bool
}

// New builds a Model over an already-scanned vault tree.
func New(vaults core.Vaults, cfg core.Config, sorter *core.Sorter) Model {
	m := Model{vaults: vaults, cfg: cfg, sorter: sorter, height: 20}
	m.rebuild()
	return m
}

func (m *Model) rebuild() {
	filter := core.ParseFilter(m.search, m.cfg, time.Now())
	filtered := core.FilterVaults(m.vaults, filter)
	m.rows = m.rows[:0]
	for _, vault := range filtered {
		m.flattenNode(vault, 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m *Model) flattenNode(n core.VaultNode, depth int) {
	if n.Kind != core.NodeFile {
		for _, child := range n.Content {
			m.flattenNode(child, depth)
		}
		return
	}
	m.flattenEntries(n.Entries, depth)
}

func (m *Model) flattenEntries(entries []core.FileEntry, depth int) {
	tasks := make([]core.Task, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case core.EntryHeader:
			m.rows = append(m.rows, row{isHeader: true, depth: depth, header: e.Header.Name})
			m.flattenEntries(e.Header.Content, depth+1)
		case core.EntryTask:
			tasks = append(tasks, *e.TaskVal)
		}
	}
	if len(tasks) > 0 && m.sorter != nil {
		m.sorter.Sort(tasks, core.ByDueDate)
	}
	for _, t := range tasks {
		m.flattenTask(t, depth)
	}
}

func (m *Model) flattenTask(t core.Task, depth int) {
	m.rows = append(m.rows, row{depth: depth, task: t})
	for _, sub := range t.Subtasks {
		m.flattenTask(sub, depth+1)
	}
}

// Run launches the interactive browser over vaults until the user quits.
func Run(vaults core.Vaults, cfg core.Config, sorter *core.Sorter) error {
	_, err := tea.NewProgram(New(vaults, cfg, sorter)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	case tea.KeyRunes:
		m.search += string(msg.Runes)
	default:
		return m, nil
	}
	m.rebuild()
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, nil
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(0, len(m.rows)-1)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(" vaulttasks ") + "\n\n")

	visible := m.rows
	if m.height > 4 && len(visible) > m.height-4 {
		visible = visible[:m.height-4]
	}
	for i, r := range visible {
		b.WriteString(m.renderRow(r, i == m.cursor))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d items · j/k move · / search · q quit", len(m.rows))
	if m.searching {
		footer = searchStyle.Render("/" + m.search)
	}
	b.WriteString(footerStyle.Render(footer))
	return b.String()
}

func (m Model) renderRow(r row, selected bool) string {
	indent := strings.Repeat("  ", r.depth)
	if r.isHeader {
		return normalRowStyle.Render(indent + "# " + r.header)
	}

	line := indent + "- " + r.task.Name
	for _, tag := range r.task.Tags {
		line += " " + tagStyle.Render("#"+tag)
	}

	style := normalRowStyle
	if r.task.State.IsClosed() {
		style = doneRowStyle
	}
	if selected {
		style = selectedRowStyle
	}
	return style.Render(line)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
