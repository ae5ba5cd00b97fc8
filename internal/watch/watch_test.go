package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant_FiltersToMarkdownAndCreate(t *testing.T) {
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"markdown write", fsnotify.Event{Name: "note.md", Op: fsnotify.Write}, true},
		{"non-markdown write", fsnotify.Event{Name: "note.txt", Op: fsnotify.Write}, false},
		{"directory create", fsnotify.Event{Name: "subdir", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "note.md", Op: fsnotify.Chmod}, false},
		{"markdown remove", fsnotify.Event{Name: "note.md", Op: fsnotify.Remove}, true},
	}
	for _, c := range cases {
		if got := relevant(c.ev); got != c.want {
			t.Errorf("%s: relevant(%+v) = %v, want %v", c.name, c.ev, got, c.want)
		}
	}
}

func TestWatcher_DebouncesAndRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rebuilds := make(chan struct{}, 8)
	w, err := New([]string{dir}, 20*time.Millisecond, func() {
		rebuilds <- struct{}{}
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.Run(stop)
		close(done)
	}()
	defer func() {
		close(stop)
		<-done
	}()

	path := filepath.Join(sub, "a.md")
	if err := os.WriteFile(path, []byte("# hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// A second quick write should collapse into the same debounce window.
	if err := os.WriteFile(path, []byte("# hi again"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-rebuilds:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rebuild within the debounce window")
	}
}
