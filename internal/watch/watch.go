// Package watch triggers a full vault rescan on filesystem change.
// Incremental reparsing is out of scope: the only supported reload strategy
// is rebuilding the tree from scratch, so this package's only job is
// deciding *when* to call that rebuild, debounced so a burst of saves
// doesn't trigger a rescan per write.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher recursively watches a set of vault roots and calls rebuild
// (debounced) whenever a .md file is written, removed, or renamed, or
// anything is created (a new directory is also added to the watch).
type Watcher struct {
	roots    []string
	rebuild  func()
	debounce time.Duration

	fsw *fsnotify.Watcher
}

// New builds a Watcher over roots. rebuild is called from the Watcher's own
// goroutine; callers needing to touch shared state should synchronize
// internally. debounce of 0 uses a 300ms default.
func New(roots []string, debounce time.Duration, rebuild func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	w := &Watcher{roots: roots, rebuild: rebuild, debounce: debounce, fsw: fsw}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run blocks, dispatching debounced rebuilds until stop is closed.
func (w *Watcher) Run(stop <-chan struct{}) {
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			if timer != nil {
				timer.Stop()
			}
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						slog.Warn("watch: failed to add new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watch: fsnotify error", "error", err)
		case <-pending:
			slog.Debug("watch: vault change detected, rebuilding")
			w.rebuild()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Ext(ev.Name) == ".md" || ev.Op&fsnotify.Create != 0
}
