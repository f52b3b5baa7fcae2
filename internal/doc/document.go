// Package doc owns the shared document: one task graph, one undo history,
// any number of attached views. All mutation funnels through commands so
// every change is reversible and every view hears about it.
package doc

import (
	"sync"

	"taskweave/internal/graph"
)

// Document is the single authority over a graph. Reads take a snapshot;
// writes go through Apply, Undo and Redo, which commit under the write lock
// and broadcast a Note to every attached view.
type Document struct {
	mu    sync.RWMutex
	graph *graph.Graph
	hist  history
	views map[*ViewChannel]struct{}
	seq   uint64
	path  string
	dirty bool

	intents chan Intent
}

// New wraps a graph in a document. path may be empty for an unsaved
// document.
func New(g *graph.Graph, path string) *Document {
	if g == nil {
		g = graph.New()
	}
	return &Document{
		graph:   g,
		views:   map[*ViewChannel]struct{}{},
		path:    path,
		intents: make(chan Intent),
	}
}

// Attach registers a new view and returns its mailbox.
func (d *Document) Attach() *ViewChannel {
	v := newViewChannel()
	d.mu.Lock()
	d.views[v] = struct{}{}
	d.mu.Unlock()
	return v
}

// Detach closes a view's mailbox and stops broadcasting to it.
func (d *Document) Detach(v *ViewChannel) {
	d.mu.Lock()
	delete(d.views, v)
	d.mu.Unlock()
	v.Close()
}

// Snapshot returns an independent copy of the current graph. The copy is safe
// to read and lay out while the document keeps mutating.
func (d *Document) Snapshot() *graph.Graph {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.graph.Clone()
}

// Apply validates and commits one command, records its inverse for undo, and
// notifies every view. A failed command changes nothing and drops no history.
func (d *Document) Apply(cmd graph.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	inverse, err := cmd.Apply(d.graph)
	if err != nil {
		return err
	}
	d.hist.push(entry{
		cmd:        cmd,
		inverse:    inverse,
		structural: cmd.Structural(),
		summary:    cmd.String(),
	})
	d.commit(Note{Relayout: cmd.Structural(), Summary: cmd.String(), Origin: OpApply})
	return nil
}

// Undo reverts the most recent applied command.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.hist.undo()
	if !ok {
		return ErrNothingToUndo
	}
	if _, err := e.inverse.Apply(d.graph); err != nil {
		// The inverse was captured against the state it undoes; failure here
		// means the history is out of step with the graph.
		d.hist.redo()
		return err
	}
	d.commit(Note{Relayout: e.structural, Summary: e.summary, Origin: OpUndo})
	return nil
}

// Redo reapplies the most recently undone command.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.hist.redo()
	if !ok {
		return ErrNothingToRedo
	}
	if _, err := e.cmd.Apply(d.graph); err != nil {
		d.hist.undo()
		return err
	}
	d.commit(Note{Relayout: e.structural, Summary: e.summary, Origin: OpRedo})
	return nil
}

// commit stamps the note and fans it out. Caller holds the write lock; push
// never blocks, so holding it across the broadcast is fine.
func (d *Document) commit(n Note) {
	d.seq++
	d.dirty = true
	n.Seq = d.seq
	for v := range d.views {
		v.push(n)
	}
}

// CanUndo reports whether an applied command remains in the history.
func (d *Document) CanUndo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hist.canUndo()
}

// CanRedo reports whether an undone command can be reapplied.
func (d *Document) CanRedo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hist.canRedo()
}

// Seq returns the current change counter.
func (d *Document) Seq() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.seq
}

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// MarkSaved clears the unsaved-changes flag, typically after a successful
// write to Path.
func (d *Document) MarkSaved() {
	d.mu.Lock()
	d.dirty = false
	d.mu.Unlock()
}

// Path returns the backing file path, empty for an unsaved document.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// SetPath records a new backing file path.
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	d.path = path
	d.mu.Unlock()
}
