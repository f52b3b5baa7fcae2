package interact

import (
	"testing"
	"time"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

func twoTasks(t *testing.T) (*graph.Graph, model.TaskID, model.TaskID) {
	t.Helper()
	g := graph.New()
	a := &graph.Create{Title: "a"}
	b := &graph.Create{Title: "b"}
	for _, c := range []*graph.Create{a, b} {
		if _, err := c.Apply(g); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	return g, a.ID(), b.ID()
}

func TestReleaseBeforeGraceCommitsNothing(t *testing.T) {
	g, a, b := twoTasks(t)
	c := NewController(time.Second)

	if err := c.StartDrag(g, b); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Hover(g, a)
	c.Tick(999 * time.Millisecond)
	if c.AcceptanceVisible() {
		t.Fatalf("indicator shown before grace elapsed")
	}
	if cmd, ok := c.Release(); ok {
		t.Fatalf("sub-grace release produced %v", cmd)
	}
	if c.Phase() != Idle {
		t.Fatalf("release did not reset the machine")
	}
}

func TestReleaseAfterGraceCommitsOnce(t *testing.T) {
	g, a, b := twoTasks(t)
	c := NewController(time.Second)

	if err := c.StartDrag(g, b); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Hover(g, a)
	c.Tick(time.Second)
	if !c.AcceptanceVisible() {
		t.Fatalf("indicator hidden at grace boundary")
	}
	cmd, ok := c.Release()
	if !ok {
		t.Fatalf("release after grace committed nothing")
	}
	link, isLink := cmd.(*graph.Link)
	if !isLink || link.Parent != a || link.Child != b {
		t.Fatalf("unexpected command %v", cmd)
	}

	// The machine is idle now; a second release yields nothing.
	if _, ok := c.Release(); ok {
		t.Fatalf("idle release produced a command")
	}
}

func TestLeaveResetsGraceClock(t *testing.T) {
	g, a, b := twoTasks(t)
	c := NewController(time.Second)

	c.StartDrag(g, b)
	c.Hover(g, a)
	c.Tick(900 * time.Millisecond)
	c.Leave()
	c.Hover(g, a)
	c.Tick(900 * time.Millisecond)
	if c.AcceptanceVisible() {
		t.Fatalf("grace clock survived a leave")
	}
	c.Tick(100 * time.Millisecond)
	if !c.AcceptanceVisible() {
		t.Fatalf("fresh hover did not reach grace")
	}
}

func TestHoverRetargetRestartsClock(t *testing.T) {
	g, a, b := twoTasks(t)
	extra := &graph.Create{Title: "c"}
	if _, err := extra.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}

	c := NewController(time.Second)
	c.StartDrag(g, b)
	c.Hover(g, a)
	c.Tick(time.Second)
	c.Hover(g, extra.ID())
	if c.AcceptanceVisible() {
		t.Fatalf("clock carried over to a new target")
	}
	// Re-hovering the current target must not reset.
	c.Tick(time.Second)
	c.Hover(g, extra.ID())
	if !c.AcceptanceVisible() {
		t.Fatalf("hovering the same target reset the clock")
	}
}

func TestCycleTargetNeverBecomesCandidate(t *testing.T) {
	g, a, b := twoTasks(t)
	if _, err := (&graph.Link{Parent: a, Child: b}).Apply(g); err != nil {
		t.Fatalf("link: %v", err)
	}

	c := NewController(time.Second)
	c.StartDrag(g, a)
	c.Hover(g, b) // b -> a would close a cycle
	if c.Phase() == Candidate {
		t.Fatalf("cycle-closing target accepted as candidate")
	}
	c.Tick(2 * time.Second)
	if cmd, ok := c.Release(); ok {
		t.Fatalf("release over invalid target produced %v", cmd)
	}
}

func TestExistingParentNeverBecomesCandidate(t *testing.T) {
	g, a, b := twoTasks(t)
	if _, err := (&graph.Link{Parent: a, Child: b}).Apply(g); err != nil {
		t.Fatalf("link: %v", err)
	}

	// Dropping b back onto its current parent must not offer a duplicate
	// edge; undoing one would sever the original.
	c := NewController(time.Second)
	c.StartDrag(g, b)
	c.Hover(g, a)
	if c.Phase() == Candidate {
		t.Fatalf("existing parent accepted as drop target")
	}
	c.Tick(2 * time.Second)
	if cmd, ok := c.Release(); ok {
		t.Fatalf("release over existing parent produced %v", cmd)
	}
}

func TestSelfTargetRejected(t *testing.T) {
	g, a, _ := twoTasks(t)
	c := NewController(time.Second)
	c.StartDrag(g, a)
	c.Hover(g, a)
	if c.Phase() == Candidate {
		t.Fatalf("task accepted itself as drop target")
	}
}

func TestConcurrentDeleteCancelsDrag(t *testing.T) {
	g, a, b := twoTasks(t)
	c := NewController(time.Second)
	c.StartDrag(g, b)
	c.Hover(g, a)
	c.Tick(2 * time.Second)

	c.TaskDeleted(b)
	if c.Phase() != Idle {
		t.Fatalf("drag survived deletion of the dragged task")
	}
	if _, ok := c.Release(); ok {
		t.Fatalf("cancelled drag still committed")
	}
}

func TestDeleteForgetsCollapseAndFocus(t *testing.T) {
	g, a, _ := twoTasks(t)
	_ = g
	c := NewController(0)
	c.ToggleCollapse(a)
	c.Focus(a)

	c.TaskDeleted(a)
	opts := c.LayoutOptions(false)
	if opts.Collapsed[a] {
		t.Fatalf("collapse state survived deletion")
	}
	if opts.Focus != nil {
		t.Fatalf("focus survived deletion")
	}
}

func TestToggleCollapse(t *testing.T) {
	c := NewController(0)
	if !c.ToggleCollapse(3) {
		t.Fatalf("first toggle should collapse")
	}
	if c.ToggleCollapse(3) {
		t.Fatalf("second toggle should expand")
	}
	if opts := c.LayoutOptions(false); opts.Collapsed != nil {
		t.Fatalf("expanded task left in layout options")
	}
}

func TestStartDragUnknownTask(t *testing.T) {
	g := graph.New()
	c := NewController(0)
	if err := c.StartDrag(g, 5); err == nil {
		t.Fatalf("expected error for unknown task")
	}
	if c.Phase() != Idle {
		t.Fatalf("failed start changed phase")
	}
}
