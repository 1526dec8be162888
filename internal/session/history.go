package session

// historyEntry pairs an applied command with the inverse that undoes
// it.
type historyEntry struct {
	cmd Command
	inv Command
}

// History is the undo stack: applied commands up to cursor, undone
// commands beyond it awaiting redo.
type History struct {
	entries []historyEntry
	cursor  int
}

// Push records an applied command and its inverse, discarding any
// undone tail.
func (h *History) Push(cmd, inv Command) {
	h.entries = append(h.entries[:h.cursor], historyEntry{cmd: cmd, inv: inv})
	h.cursor = len(h.entries)
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Len returns the number of applied commands not yet undone.
func (h *History) Len() int { return h.cursor }

// Reset drops the whole history. Called when the session switches
// documents; timelines never cross files.
func (h *History) Reset() {
	h.entries = h.entries[:0]
	h.cursor = 0
}
