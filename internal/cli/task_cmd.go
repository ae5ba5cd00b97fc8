// Package cli implements the cobra command handlers wired up by
// cmd/vaulttasks, operating over internal/core's scan/filter/sort/write API.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/vaulttasks/vaulttasks/internal/config"
	"github.com/vaulttasks/vaulttasks/internal/core"
	"github.com/vaulttasks/vaulttasks/internal/db"
	"github.com/vaulttasks/vaulttasks/internal/history"
	"github.com/vaulttasks/vaulttasks/internal/logging"
	"github.com/vaulttasks/vaulttasks/internal/server"
	"github.com/vaulttasks/vaulttasks/internal/tui"
	"github.com/vaulttasks/vaulttasks/internal/watch"
)

// localeTag parses a BCP 47 tag for the Sorter's locale-aware name
// comparison, falling back to language.Und (byte-wise-ish ordering) for an
// empty or unrecognised tag rather than failing the command.
func localeTag(tag string) language.Tag {
	if tag == "" {
		return language.Und
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.Und
	}
	return parsed
}

// bootstrap loads configuration, initializes logging, and scans every
// configured vault path. Every subcommand below starts from this.
func bootstrap(fs *pflag.FlagSet) (config.Config, core.Vaults, error) {
	cfg, _, err := config.Load(fs)
	if err != nil {
		return cfg, nil, fmt.Errorf("loading config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	logging.Init(level)

	vaults, err := core.ScanVaults(cfg.Core, time.Now(), func(path string, err error) {
		slog.Warn("skipping unreadable file", "path", path, "error", err)
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("scanning vault: %w", err)
	}
	return cfg, vaults, nil
}

func openRecorder(cfg config.Config) core.EditRecorder {
	conn, err := db.Open(cfg.HistoryDBPath)
	if err != nil {
		slog.Warn("edit history disabled, could not open database", "error", err)
		return nil
	}
	store, err := history.Open(conn)
	if err != nil {
		slog.Warn("edit history disabled, migration failed", "error", err)
		return nil
	}
	return store
}

// ListCmd prints the filtered/sorted task tree. args, if present, are
// joined into a single filter search string and parsed by core.ParseFilter.
func ListCmd(cmd *cobra.Command, args []string) {
	cfg, vaults, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("list: bootstrap failed", "error", err)
		return
	}

	filter := core.ParseFilter(strings.Join(args, " "), cfg.Core, time.Now())
	tasks := core.FilterTasksToVec(vaults, filter)

	lang, _ := cmd.Flags().GetString("locale")
	sorter := core.NewSorter(localeTag(lang))
	sortMode := sortModeFromFlag(cmd.Flags())
	sorter.Sort(tasks, sortMode)

	for _, t := range tasks {
		printTask(t, 0)
	}
	if len(tasks) == 0 {
		fmt.Println("no matching tasks")
	}
}

func printTask(t core.Task, depth int) {
	marker := " "
	switch t.State {
	case core.StateDone:
		marker = "x"
	case core.StateIncomplete:
		marker = "/"
	case core.StateCanceled:
		marker = "-"
	}
	line := fmt.Sprintf("%s- [%s] %s", strings.Repeat("  ", depth), marker, t.Name)
	if t.DueDate != nil {
		line += " " + core.FormatDate(*t.DueDate, false)
	}
	for _, tag := range t.Tags {
		line += " #" + tag
	}
	fmt.Println(line)
	for _, sub := range t.Subtasks {
		printTask(sub, depth+1)
	}
}

// TagsCmd prints every tag in use across the vault, one per line.
func TagsCmd(cmd *cobra.Command, args []string) {
	_, vaults, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("tags: bootstrap failed", "error", err)
		return
	}
	for _, tag := range core.GetTagsSorted(vaults) {
		fmt.Println(tag)
	}
}

// AddCmd appends a new task line to the file named by --file.
func AddCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		slog.Error("add: no task name provided")
		cmd.Help()
		return
	}
	cfg, _, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("add: bootstrap failed", "error", err)
		return
	}
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		slog.Error("add: --file is required")
		cmd.Help()
		return
	}

	task := core.Task{
		Name:       strings.Join(args, " "),
		SourcePath: file,
		State:      core.StateToDo,
	}
	if err := core.WriteTask(task, cfg.Core, openRecorder(cfg)); err != nil {
		slog.Error("add: write failed", "error", err)
		return
	}
	slog.Info("task added", "name", task.Name, "file", file)
}

// DoneCmd marks the task at --file:--line as Done.
func DoneCmd(cmd *cobra.Command, args []string) {
	setState(cmd, core.StateDone)
}

// EditCmd rewrites the task at --file:--line with the name from args, the
// tags and priority from flags, State set to ToDo, and every other field at
// its zero value: core.WriteTask
// always re-serializes a task's full fixed-attribute set rather than
// patching individual fields.
func EditCmd(cmd *cobra.Command, args []string) {
	cfg, _, file, line, err := editTargetWithVaults(cmd)
	if err != nil {
		slog.Error("edit: " + err.Error())
		cmd.Help()
		return
	}

	name := strings.Join(args, " ")
	priority, _ := cmd.Flags().GetInt("priority")
	tagsCSV, _ := cmd.Flags().GetString("tags")

	task := core.Task{
		Name:       name,
		SourcePath: file,
		LineNumber: &line,
		State:      core.StateToDo,
		Priority:   uint(priority),
	}
	if tagsCSV != "" {
		task.Tags = strings.Split(tagsCSV, ",")
	}
	if err := core.WriteTask(task, cfg.Core, openRecorder(cfg)); err != nil {
		slog.Error("edit: write failed", "error", err)
		return
	}
	slog.Info("task edited", "file", file, "line", line)
}

func setState(cmd *cobra.Command, state core.State) {
	cfg, vaults, file, line, err := editTargetWithVaults(cmd)
	if err != nil {
		slog.Error("mark: " + err.Error())
		cmd.Help()
		return
	}
	existing, ok := findTask(vaults, file, line)
	if !ok {
		slog.Error("mark: no task found", "file", file, "line", line)
		return
	}
	existing.State = state
	if err := core.WriteTask(existing, cfg.Core, openRecorder(cfg)); err != nil {
		slog.Error("mark: write failed", "error", err)
		return
	}
	slog.Info("task marked", "file", file, "line", line, "state", state.String())
}

func editTargetWithVaults(cmd *cobra.Command) (config.Config, core.Vaults, string, int, error) {
	cfg, vaults, err := bootstrap(cmd.Flags())
	if err != nil {
		return cfg, nil, "", 0, err
	}
	file, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetInt("line")
	if file == "" || line <= 0 {
		return cfg, vaults, "", 0, fmt.Errorf("--file and --line are required")
	}
	return cfg, vaults, file, line, nil
}

func findTask(vaults core.Vaults, file string, line int) (core.Task, bool) {
	var found core.Task
	var ok bool
	core.Walk(vaults, &taskFinder{file: file, line: line, found: &found, ok: &ok})
	return found, ok
}

type taskFinder struct {
	file  string
	line  int
	found *core.Task
	ok    *bool
}

func (f *taskFinder) VisitVault(_ core.VaultNode) bool     { return !*f.ok }
func (f *taskFinder) VisitDirectory(_ core.VaultNode) bool { return !*f.ok }
func (f *taskFinder) VisitFile(_ core.VaultNode) bool      { return !*f.ok }
func (f *taskFinder) VisitHeader(_ core.HeaderEntry) bool  { return !*f.ok }
func (f *taskFinder) VisitTracker(_ core.Tracker) bool     { return !*f.ok }
func (f *taskFinder) VisitTask(t core.Task) bool {
	if *f.ok {
		return false
	}
	if t.SourcePath == f.file && t.LineNumber != nil && *t.LineNumber == f.line {
		*f.found = t
		*f.ok = true
		return false
	}
	return true
}

// TrackerLogCmd appends today's occurrence to a named tracker, via
// core.AddBlanks followed by core.WriteTracker, optionally setting one
// category's value.
func TrackerLogCmd(cmd *cobra.Command, args []string) {
	cfg, vaults, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("tracker log: bootstrap failed", "error", err)
		return
	}
	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetString("category")
	value, _ := cmd.Flags().GetString("value")
	if name == "" {
		slog.Error("tracker log: --name is required")
		cmd.Help()
		return
	}

	tracker, ok := findTracker(vaults, name)
	if !ok {
		slog.Error("tracker log: no tracker found", "name", name)
		return
	}
	// The table occupies the "Tracker:" line plus the contiguous "|" rows
	// after it; rows the parser filled in for date gaps are not in the file.
	raw, err := os.ReadFile(tracker.SourcePath)
	if err != nil {
		slog.Error("tracker log: read failed", "error", err)
		return
	}
	srcLines := strings.Split(string(raw), "\n")
	tableLines := 1
	for i := tracker.LineNumber; i < len(srcLines) && strings.HasPrefix(strings.TrimSpace(srcLines[i]), "|"); i++ {
		tableLines++
	}

	extended := core.AddBlanks(tracker, time.Now(), cfg.Core.TrackerExtraBlanks)
	if category != "" && value != "" {
		setLastOccurrence(&extended, category, value)
	}

	if err := core.WriteTracker(extended, cfg.Core, tableLines); err != nil {
		slog.Error("tracker log: write failed", "error", err)
		return
	}
	slog.Info("tracker logged", "name", name, "category", category, "value", value)
}

func findTracker(vaults core.Vaults, name string) (core.Tracker, bool) {
	var found core.Tracker
	var ok bool
	core.Walk(vaults, &trackerFinder{name: name, found: &found, ok: &ok})
	return found, ok
}

type trackerFinder struct {
	name  string
	found *core.Tracker
	ok    *bool
}

func (f *trackerFinder) VisitVault(_ core.VaultNode) bool     { return !*f.ok }
func (f *trackerFinder) VisitDirectory(_ core.VaultNode) bool { return !*f.ok }
func (f *trackerFinder) VisitFile(_ core.VaultNode) bool      { return !*f.ok }
func (f *trackerFinder) VisitHeader(_ core.HeaderEntry) bool  { return !*f.ok }
func (f *trackerFinder) VisitTask(_ core.Task) bool           { return !*f.ok }
func (f *trackerFinder) VisitTracker(t core.Tracker) bool {
	if t.Name == f.name {
		*f.found = t
		*f.ok = true
	}
	return false
}

func setLastOccurrence(tr *core.Tracker, category, value string) {
	for i := range tr.Categories {
		if tr.Categories[i].Name != category {
			continue
		}
		entries := tr.Categories[i].Entries
		if len(entries) == 0 {
			return
		}
		last := len(entries) - 1
		if score, err := strconv.Atoi(value); err == nil {
			entries[last] = core.TrackerEntry{Kind: core.TrackerEntryScore, Score: int32(score)}
		} else if value == "x" || value == "true" {
			entries[last] = core.TrackerEntry{Kind: core.TrackerEntryBool, Bool: true}
		} else {
			entries[last] = core.TrackerEntry{Kind: core.TrackerEntryNote, Note: value}
		}
	}
}

// TuiCmd launches the bubbletea task browser.
func TuiCmd(cmd *cobra.Command, args []string) {
	cfg, vaults, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("tui: bootstrap failed", "error", err)
		return
	}
	lang, _ := cmd.Flags().GetString("locale")
	sorter := core.NewSorter(localeTag(lang))
	if err := tui.Run(vaults, cfg.Core, sorter); err != nil {
		slog.Error("tui: exited with error", "error", err)
	}
}

// DaemonCmd launches the stdio JSON-RPC server in-process (cmd/vaulttasksd
// is the same loop as a standalone binary, for environments that want a
// dedicated executable instead).
func DaemonCmd(cmd *cobra.Command, args []string) {
	cfg, _, err := bootstrap(cmd.Flags())
	if err != nil {
		slog.Error("daemon: bootstrap failed", "error", err)
		return
	}
	state := server.NewState(cfg.Core, openRecorder(cfg))
	if err := state.Reindex(); err != nil {
		slog.Error("daemon: initial scan failed", "error", err)
		return
	}

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	if len(cfg.Core.VaultPaths) > 0 {
		w, err := watch.New(cfg.Core.VaultPaths, 0, func() {
			if err := state.Reindex(); err != nil {
				slog.Warn("daemon: rescan after vault change failed", "error", err)
			}
		})
		if err != nil {
			slog.Warn("daemon: vault watch disabled", "error", err)
		} else {
			go w.Run(stopWatch)
		}
	}

	if err := server.Run(state); err != nil {
		slog.Error("daemon: server error", "error", err)
	}
}

func sortModeFromFlag(fs *pflag.FlagSet) core.SortingMode {
	mode, _ := fs.GetString("sort")
	if mode == "due-date" {
		return core.ByDueDate
	}
	return core.ByName
}
