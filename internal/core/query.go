package core

import (
	"golang.org/x/exp/slices"
)

// This file implements path-addressed navigation and lookup helpers over a
// parsed Vaults tree: tag collection, path resolution, and filtered task
// listing.

// GetTags returns the union of every tag across all tasks and subtasks in
// vaults.
func GetTags(vaults Vaults) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, v := range vaults {
		collectTags(v, tags)
	}
	return tags
}

// GetTagsSorted is GetTags flattened into a stably-ordered slice, for
// callers (the CLI's tag listing, the daemon's core.get_tags) that need a
// deterministic display order rather than a set.
func GetTagsSorted(vaults Vaults) []string {
	tagSet := GetTags(vaults)
	out := make([]string, 0, len(tagSet))
	for t := range tagSet {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func collectTags(n VaultNode, tags map[string]struct{}) {
	if n.Kind == NodeFile {
		collectEntryTags(n.Entries, tags)
		return
	}
	for _, c := range n.Content {
		collectTags(c, tags)
	}
}

func collectEntryTags(entries []FileEntry, tags map[string]struct{}) {
	for _, e := range entries {
		switch e.Kind {
		case EntryHeader:
			collectEntryTags(e.Header.Content, tags)
		case EntryTask:
			collectTaskTags(*e.TaskVal, tags)
		}
	}
}

func collectTaskTags(t Task, tags map[string]struct{}) {
	for _, tag := range t.Tags {
		tags[tag] = struct{}{}
	}
	for _, st := range t.Subtasks {
		collectTaskTags(st, tags)
	}
}

// pathNode is the uniform element type GetPathLayer/GetSubtree navigate
// over and return: a VaultNode, a Header, or a Task, whichever the path
// segment resolved to.
type pathNode struct {
	Vault  *VaultNode
	Header *HeaderEntry
	Task   *Task
}

func nodeName(n pathNode) string {
	switch {
	case n.Vault != nil:
		return n.Vault.Name
	case n.Header != nil:
		return n.Header.Name
	case n.Task != nil:
		return n.Task.Name
	default:
		return ""
	}
}

func nodeChildren(n pathNode) []pathNode {
	switch {
	case n.Vault != nil:
		var out []pathNode
		for i := range n.Vault.Content {
			out = append(out, pathNode{Vault: &n.Vault.Content[i]})
		}
		for i := range n.Vault.Entries {
			out = append(out, entryToPathNode(&n.Vault.Entries[i]))
		}
		return out
	case n.Header != nil:
		var out []pathNode
		for i := range n.Header.Content {
			out = append(out, entryToPathNode(&n.Header.Content[i]))
		}
		return out
	case n.Task != nil:
		var out []pathNode
		for i := range n.Task.Subtasks {
			out = append(out, pathNode{Task: &n.Task.Subtasks[i]})
		}
		return out
	default:
		return nil
	}
}

func entryToPathNode(e *FileEntry) pathNode {
	switch e.Kind {
	case EntryHeader:
		return pathNode{Header: e.Header}
	case EntryTask:
		return pathNode{Task: e.TaskVal}
	default:
		return pathNode{}
	}
}

func rootNodes(vaults Vaults) []pathNode {
	var out []pathNode
	for i := range vaults {
		out = append(out, pathNode{Vault: &vaults[i]})
	}
	return out
}

// resolvePath matches each segment against the names at the current layer
// (a vault node's child nodes come before its file entries), takes the first
// match, and returns the children of the last node matched, or ok=false if
// any segment fails to resolve.
func resolvePath(vaults Vaults, path []string) ([]pathNode, bool) {
	level := rootNodes(vaults)
	if len(path) == 0 {
		return level, true
	}
	for _, seg := range path {
		var next []pathNode
		var matched *pathNode
		for i := range level {
			if nodeName(level[i]) == seg {
				matched = &level[i]
				break
			}
		}
		if matched == nil {
			return nil, false
		}
		next = nodeChildren(*matched)
		level = next
	}
	return level, true
}

// GetPathLayer walks the tree by path and returns the children at the
// final layer, stripped of their own descendants (used to drive UI list
// views). Only header and task children are returned, each keeping its own
// fields but not its nested content; vault, directory, file and tracker
// nodes at that layer are not included.
func GetPathLayer(vaults Vaults, path []string) []FileEntry {
	nodes, ok := resolvePath(vaults, path)
	if !ok {
		return nil
	}
	var out []FileEntry
	for _, n := range nodes {
		switch {
		case n.Header != nil:
			out = append(out, NewHeaderEntry(HeaderEntry{Level: n.Header.Level, Name: n.Header.Name}))
		case n.Task != nil:
			stripped := *n.Task
			stripped.Subtasks = nil
			out = append(out, NewTaskEntry(stripped))
		}
	}
	return out
}

// GetSubtree is like GetPathLayer but returns full subtrees; taskPreviewOffset
// lets a caller stop taskPreviewOffset levels early (0 means descend fully).
func GetSubtree(vaults Vaults, path []string, taskPreviewOffset int) []FileEntry {
	if taskPreviewOffset > 0 && len(path) >= taskPreviewOffset {
		path = path[:len(path)-taskPreviewOffset]
	}
	nodes, ok := resolvePath(vaults, path)
	if !ok {
		return nil
	}
	var out []FileEntry
	for _, n := range nodes {
		switch {
		case n.Header != nil:
			out = append(out, NewHeaderEntry(*n.Header))
		case n.Task != nil:
			out = append(out, NewTaskEntry(*n.Task))
		}
	}
	return out
}

// CanEnter reports whether the node at path has children: a non-empty
// directory/vault, a non-empty header, or a task with subtasks.
func CanEnter(vaults Vaults, path []string) bool {
	if len(path) == 0 {
		return len(vaults) > 0
	}
	parent := path[:len(path)-1]
	seg := path[len(path)-1]
	level, ok := resolvePath(vaults, parent)
	if !ok {
		return false
	}
	for _, n := range level {
		if nodeName(n) == seg {
			return len(nodeChildren(n)) > 0
		}
	}
	return false
}

