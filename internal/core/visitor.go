package core

// Visitor lets a caller walk a parsed tree without re-implementing the
// recursive descent over Vaults/VaultNode/FileEntry each time (used by the
// CLI's task and tracker lookups and by the daemon's tracker lookup).
// Each Visit* method returning false stops descent into that node's
// children; the top-level walk always visits every root.
type Visitor interface {
	VisitVault(v VaultNode) bool
	VisitDirectory(v VaultNode) bool
	VisitFile(v VaultNode) bool
	VisitHeader(h HeaderEntry) bool
	VisitTask(t Task) bool
	VisitTracker(t Tracker) bool
}

// Walk drives visitor over vaults in source order.
func Walk(vaults Vaults, visitor Visitor) {
	for _, v := range vaults {
		walkNode(v, visitor)
	}
}

func walkNode(n VaultNode, visitor Visitor) {
	var enter bool
	switch n.Kind {
	case NodeVault:
		enter = visitor.VisitVault(n)
	case NodeDirectory:
		enter = visitor.VisitDirectory(n)
	case NodeFile:
		enter = visitor.VisitFile(n)
	}
	if !enter {
		return
	}
	for _, c := range n.Content {
		walkNode(c, visitor)
	}
	if n.Kind == NodeFile {
		walkEntries(n.Entries, visitor)
	}
}

func walkEntries(entries []FileEntry, visitor Visitor) {
	for _, e := range entries {
		switch e.Kind {
		case EntryHeader:
			if visitor.VisitHeader(*e.Header) {
				walkEntries(e.Header.Content, visitor)
			}
		case EntryTask:
			if visitor.VisitTask(*e.TaskVal) {
				walkTask(*e.TaskVal, visitor)
			}
		case EntryTracker:
			visitor.VisitTracker(*e.TrackerVal)
		}
	}
}

func walkTask(t Task, visitor Visitor) {
	for _, st := range t.Subtasks {
		if visitor.VisitTask(st) {
			walkTask(st, visitor)
		}
	}
}
