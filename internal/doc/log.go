package doc

import (
	"errors"

	"taskweave/internal/graph"
)

var (
	// ErrNothingToUndo is returned by Undo when the history cursor is at the
	// oldest entry.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when no undone entry remains ahead
	// of the cursor.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry pairs an applied command with the inverse captured at apply time.
type entry struct {
	cmd        graph.Command
	inverse    graph.Command
	structural bool
	summary    string
}

// history is a linear undo log with a cursor. Entries behind the cursor are
// undoable, entries at or ahead of it are redoable. Pushing a new entry
// discards the redo tail.
type history struct {
	entries []entry
	cursor  int
}

func (h *history) push(e entry) {
	h.entries = append(h.entries[:h.cursor], e)
	h.cursor = len(h.entries)
}

func (h *history) undo() (entry, bool) {
	if h.cursor == 0 {
		return entry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

func (h *history) redo() (entry, bool) {
	if h.cursor == len(h.entries) {
		return entry{}, false
	}
	e := h.entries[h.cursor]
	h.cursor++
	return e, true
}

func (h *history) canUndo() bool { return h.cursor > 0 }
func (h *history) canRedo() bool { return h.cursor < len(h.entries) }
