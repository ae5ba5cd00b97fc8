// Package server implements the blocking stdio JSON-RPC 2.0 loop exposed by
// cmd/vaulttasksd: newline-delimited requests in, newline-delimited
// responses out, so a non-Go frontend (editor plugin, alternate TUI) can
// drive internal/core without linking Go.
package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vaulttasks/vaulttasks/internal/core"
	"github.com/vaulttasks/vaulttasks/internal/rpc"
)

// State holds the currently loaded vault tree plus the config needed to
// reparse and rewrite it. It is the daemon's only mutable state, guarded by
// a mutex since requests are handled one line at a time but an
// internal/watch-triggered reindex runs on the watcher's goroutine and can
// race a concurrent request.
type State struct {
	mu       sync.RWMutex
	cfg      core.Config
	vaults   core.Vaults
	recorder core.EditRecorder
}

// NewState builds server state over cfg. The vault is not scanned until the
// first core.reindex call (or an explicit Reindex()). recorder may be nil.
func NewState(cfg core.Config, recorder core.EditRecorder) *State {
	return &State{cfg: cfg, recorder: recorder}
}

// Reindex rescans every configured vault path from scratch, the only reload
// strategy the core supports.
func (s *State) Reindex() error {
	vaults, err := core.ScanVaults(s.cfg, time.Now(), func(path string, err error) {
		slog.Warn("server: skipping unreadable file", "path", path, "error", err)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.vaults = vaults
	s.mu.Unlock()
	return nil
}

// Run launches the blocking stdio JSON-RPC loop.
func Run(state *State) error {
	scanner := bufio.NewScanner(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var request rpc.Request
		if err := json.Unmarshal([]byte(line), &request); err != nil {
			slog.Warn("server: malformed JSON", "error", err)
			if err := writeResponse(writer, rpc.ResponseError(rpc.NullID(), rpc.ParseError(err.Error()))); err != nil {
				return err
			}
			continue
		}

		resp, ok := handleRequest(state, request)
		if ok {
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read error: %w", err)
	}
	slog.Info("server: stdin closed, shutting down")
	return nil
}

func writeResponse(w *bufio.Writer, resp rpc.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

func handleRequest(state *State, req rpc.Request) (rpc.Response, bool) {
	id := rpc.NullID()
	if req.ID != nil {
		id = req.ID
	}
	if req.JSONRPC != "2.0" {
		return rpc.ResponseError(id, rpc.InvalidRequest(`jsonrpc must be "2.0"`)), true
	}

	result, rpcErr := dispatch(state, req.Method, req.Params)
	if rpcErr.Code != 0 {
		if req.ID == nil {
			slog.Warn("server: notification failed", "method", req.Method, "error", rpcErr)
			return rpc.Response{}, false
		}
		return rpc.ResponseError(id, rpcErr), true
	}
	if req.ID == nil {
		return rpc.Response{}, false
	}
	return rpc.ResponseResult(id, result), true
}

func dispatch(state *State, method string, params json.RawMessage) (interface{}, rpc.Error) {
	switch method {
	case "core.reindex":
		if err := state.Reindex(); err != nil {
			return nil, rpc.ServerError(err.Error())
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "core.list_tasks":
		payload, err := rpc.ParseParams[rpc.ListTasksParams](params)
		if err.Code != 0 {
			return nil, err
		}
		state.mu.RLock()
		filter := core.ParseFilter(payload.Query, state.cfg, time.Now())
		tasks := core.FilterTasksToVec(state.vaults, filter)
		state.mu.RUnlock()
		return tasks, rpc.Error{}

	case "core.get_tags":
		state.mu.RLock()
		tags := core.GetTagsSorted(state.vaults)
		state.mu.RUnlock()
		return tags, rpc.Error{}

	case "core.write_task":
		payload, err := rpc.ParseParams[rpc.WriteTaskParams](params)
		if err.Code != 0 {
			return nil, err
		}
		task, convErr := taskFromParams(payload)
		if convErr != nil {
			return nil, rpc.InvalidParams(convErr.Error())
		}
		state.mu.RLock()
		cfg := state.cfg
		state.mu.RUnlock()
		if writeErr := core.WriteTask(task, cfg, state.recorder); writeErr != nil {
			return nil, rpc.ServerError(writeErr.Error())
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	case "core.log_tracker":
		payload, err := rpc.ParseParams[rpc.LogTrackerParams](params)
		if err.Code != 0 {
			return nil, err
		}
		if payload.Name == "" {
			return nil, rpc.InvalidParams("name is required")
		}
		state.mu.RLock()
		cfg := state.cfg
		tracker, found := findTracker(state.vaults, payload.Name)
		state.mu.RUnlock()
		if !found {
			return nil, rpc.ServerError(fmt.Sprintf("no tracker named %q", payload.Name))
		}
		// The table occupies the "Tracker:" line plus the contiguous "|" rows
		// after it; rows the parser filled in for date gaps are not in the file.
		raw, readErr := os.ReadFile(tracker.SourcePath)
		if readErr != nil {
			return nil, rpc.ServerError(readErr.Error())
		}
		srcLines := strings.Split(string(raw), "\n")
		tableLines := 1
		for i := tracker.LineNumber; i < len(srcLines) && strings.HasPrefix(strings.TrimSpace(srcLines[i]), "|"); i++ {
			tableLines++
		}
		extended := core.AddBlanks(tracker, time.Now(), cfg.TrackerExtraBlanks)
		if payload.Category != "" && payload.Value != "" {
			setLastOccurrence(&extended, payload.Category, payload.Value)
		}
		if writeErr := core.WriteTracker(extended, cfg, tableLines); writeErr != nil {
			return nil, rpc.ServerError(writeErr.Error())
		}
		if reindexErr := state.Reindex(); reindexErr != nil {
			return nil, rpc.ServerError(reindexErr.Error())
		}
		return map[string]string{"status": "ok"}, rpc.Error{}

	default:
		return nil, rpc.MethodNotFound(method)
	}
}

func taskFromParams(p rpc.WriteTaskParams) (core.Task, error) {
	task := core.Task{
		Name:       p.Name,
		SourcePath: p.SourcePath,
		LineNumber: p.LineNumber,
		Priority:   p.Priority,
		Completion: p.Completion,
		Tags:       p.Tags,
		IsToday:    p.IsToday,
	}
	switch strings.ToLower(p.State) {
	case "", "todo":
		task.State = core.StateToDo
	case "done":
		task.State = core.StateDone
	case "incomplete":
		task.State = core.StateIncomplete
	case "canceled", "cancelled":
		task.State = core.StateCanceled
	default:
		return core.Task{}, fmt.Errorf("unknown state %q", p.State)
	}
	if p.DueDate != nil && *p.DueDate != "" {
		date, ok := core.ParseDateToken(*p.DueDate, false, time.Now())
		if !ok {
			return core.Task{}, fmt.Errorf("unparseable due date %q", *p.DueDate)
		}
		task.DueDate = &date
	}
	return task, nil
}

// findTracker locates a tracker by name via core.Walk, the same lookup
// internal/cli's "tracker log" subcommand performs.
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
