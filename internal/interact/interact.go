// Package interact tracks per-view interaction state: the drag-and-drop
// linking machine, collapsed subtrees and the focus filter. None of it
// touches the document; a completed drag hands back a command for the caller
// to submit.
package interact

import (
	"time"

	"taskweave/internal/graph"
	"taskweave/internal/layout"
	"taskweave/internal/model"
)

// DefaultGrace is how long a drop target must stay hovered before release
// commits the edge. Shorter hovers are treated as passing over.
const DefaultGrace = time.Second

// Phase is the drag machine's state.
type Phase int

const (
	// Idle: no drag in progress.
	Idle Phase = iota
	// Dragging: a task is held but not over a valid target.
	Dragging
	// Candidate: the held task hovers a target that would accept the edge.
	Candidate
)

// Controller is one view's interaction state. It is not safe for concurrent
// use; each view owns exactly one.
type Controller struct {
	phase   Phase
	dragged model.TaskID
	target  model.TaskID
	elapsed time.Duration
	grace   time.Duration

	collapsed map[model.TaskID]bool
	focus     *model.TaskID
}

// NewController builds a controller with the given grace period; zero or
// negative means DefaultGrace.
func NewController(grace time.Duration) *Controller {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Controller{grace: grace, collapsed: map[model.TaskID]bool{}}
}

// Phase returns the current drag state.
func (c *Controller) Phase() Phase { return c.phase }

// Dragged returns the held task; valid only while Phase is not Idle.
func (c *Controller) Dragged() model.TaskID { return c.dragged }

// Target returns the hovered task; valid only in the Candidate phase.
func (c *Controller) Target() model.TaskID { return c.target }

// StartDrag picks up a task. Starting over an active drag replaces it.
func (c *Controller) StartDrag(g *graph.Graph, id model.TaskID) error {
	if _, ok := g.Task(id); !ok {
		return graph.ErrUnknownTask
	}
	c.phase = Dragging
	c.dragged = id
	c.target = 0
	c.elapsed = 0
	return nil
}

// Hover moves the held task over a potential drop target. The cycle check
// runs here, before any commit, so an edge that would be rejected never
// shows as a candidate. Hovering a new target restarts the grace clock;
// hovering the current one leaves it running.
func (c *Controller) Hover(g *graph.Graph, target model.TaskID) {
	if c.phase == Idle {
		return
	}
	if target == c.dragged || !g.CanLink(target, c.dragged) {
		c.Leave()
		return
	}
	if c.phase == Candidate && c.target == target {
		return
	}
	c.phase = Candidate
	c.target = target
	c.elapsed = 0
}

// Leave moves the held task off any target. The grace clock resets; a later
// return to the same target starts over.
func (c *Controller) Leave() {
	if c.phase == Idle {
		return
	}
	c.phase = Dragging
	c.target = 0
	c.elapsed = 0
}

// Tick advances the grace clock while a candidate is hovered.
func (c *Controller) Tick(dt time.Duration) {
	if c.phase == Candidate {
		c.elapsed += dt
	}
}

// AcceptanceVisible reports whether the hover has outlasted the grace period
// and the view should show the drop indicator.
func (c *Controller) AcceptanceVisible() bool {
	return c.phase == Candidate && c.elapsed >= c.grace
}

// Release drops the held task. It returns the link command exactly when the
// drop lands on a candidate that has been hovered for the full grace period;
// any other release is a no-op. The controller returns to Idle either way.
func (c *Controller) Release() (graph.Command, bool) {
	commit := c.AcceptanceVisible()
	parent, child := c.target, c.dragged
	c.reset()
	if !commit {
		return nil, false
	}
	return &graph.Link{Parent: parent, Child: child}, true
}

// Cancel abandons the drag without committing anything.
func (c *Controller) Cancel() { c.reset() }

// TaskDeleted reacts to a concurrent deletion: a drag involving the removed
// task is abandoned, and its collapse and focus state is forgotten.
func (c *Controller) TaskDeleted(id model.TaskID) {
	if c.phase != Idle && (c.dragged == id || (c.phase == Candidate && c.target == id)) {
		c.reset()
	}
	delete(c.collapsed, id)
	if c.focus != nil && *c.focus == id {
		c.focus = nil
	}
}

func (c *Controller) reset() {
	c.phase = Idle
	c.dragged = 0
	c.target = 0
	c.elapsed = 0
}

// ToggleCollapse flips a task's collapsed flag and reports the new value.
func (c *Controller) ToggleCollapse(id model.TaskID) bool {
	if c.collapsed[id] {
		delete(c.collapsed, id)
		return false
	}
	c.collapsed[id] = true
	return true
}

// Focus restricts the view to one task and its relatives.
func (c *Controller) Focus(id model.TaskID) {
	f := id
	c.focus = &f
}

// ClearFocus removes the focus filter.
func (c *Controller) ClearFocus() { c.focus = nil }

// Focused returns the focused task, if any.
func (c *Controller) Focused() (model.TaskID, bool) {
	if c.focus == nil {
		return 0, false
	}
	return *c.focus, true
}

// LayoutOptions assembles the layout options implied by the current
// interaction state.
func (c *Controller) LayoutOptions(hideDone bool) layout.Options {
	opts := layout.Options{HideDone: hideDone}
	if len(c.collapsed) > 0 {
		opts.Collapsed = c.collapsed
	}
	if c.focus != nil {
		f := *c.focus
		opts.Focus = &f
	}
	return opts
}
