package tui

import (
	"strings"
	"testing"

	"taskweave/internal/graph"
	"taskweave/internal/layout"
	"taskweave/internal/model"
)

func TestColumnItemsSplitByStatus(t *testing.T) {
	g := graph.New()
	dep := &graph.Create{Title: "dep"}
	if _, err := dep.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := dep.ID()
	child := &graph.Create{Parent: &p, Title: "child"}
	if _, err := child.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	done := &graph.Create{Title: "done"}
	if _, err := done.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := (&graph.SetField{ID: done.ID(), Field: graph.FieldCompleted, Value: true}).Apply(g); err != nil {
		t.Fatalf("complete: %v", err)
	}

	ready, blocked, finished := columnItems(g, sortPriority)
	if len(ready) != 1 || ready[0].(taskItem).id != dep.ID() {
		t.Fatalf("ready column wrong: %+v", ready)
	}
	if len(blocked) != 1 || blocked[0].(taskItem).id != child.ID() {
		t.Fatalf("blocked column wrong: %+v", blocked)
	}
	if len(finished) != 1 || finished[0].(taskItem).id != done.ID() {
		t.Fatalf("done column wrong: %+v", finished)
	}
}

func TestColumnOrderFollowsPriority(t *testing.T) {
	g := graph.New()
	var ids []model.TaskID
	for _, title := range []string{"a", "b"} {
		c := &graph.Create{Title: title}
		if _, err := c.Apply(g); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, c.ID())
	}
	if _, err := (&graph.SetField{ID: ids[1], Field: graph.FieldPriority, Value: "High"}).Apply(g); err != nil {
		t.Fatalf("set priority: %v", err)
	}

	ready, _, _ := columnItems(g, sortPriority)
	if ready[0].(taskItem).id != ids[1] {
		t.Fatalf("high priority task not first: %+v", ready)
	}
}

func TestSortModes(t *testing.T) {
	g := graph.New()
	var ids []model.TaskID
	for _, title := range []string{"zebra", "apple"} {
		c := &graph.Create{Title: title}
		if _, err := c.Apply(g); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, c.ID())
	}

	byTitle := append([]model.TaskID(nil), ids...)
	sortIDs(g, byTitle, sortTitle)
	if byTitle[0] != ids[1] {
		t.Fatalf("title sort wrong: %v", byTitle)
	}

	byID := []model.TaskID{ids[1], ids[0]}
	sortIDs(g, byID, sortID)
	if byID[0] != ids[0] {
		t.Fatalf("id sort wrong: %v", byID)
	}
}

func TestTaskItemDescription(t *testing.T) {
	g := graph.New()
	c := &graph.Create{Title: "x"}
	if _, err := c.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := (&graph.SetField{ID: c.ID(), Field: graph.FieldPriority, Value: "High"}).Apply(g); err != nil {
		t.Fatalf("set priority: %v", err)
	}

	it := newTaskItem(g, c.ID())
	if !strings.Contains(it.Description(), "High") {
		t.Fatalf("priority missing from meta: %q", it.Description())
	}
	if !strings.Contains(it.Description(), "#0") {
		t.Fatalf("id missing from meta: %q", it.Description())
	}
}

func renderedState() (layout.State, map[model.TaskID]string) {
	st := layout.State{
		Nodes: map[model.TaskID]layout.Node{
			1: {X: 0, Y: 0, W: 12, H: 3},
			2: {X: 18, Y: 0, W: 12, H: 3},
		},
		Edges: map[layout.Edge][]layout.Point{
			{Parent: 1, Child: 2}: {{X: 12, Y: 1.5}, {X: 15, Y: 1.5}, {X: 15, Y: 1.5}, {X: 18, Y: 1.5}},
		},
		W: 30, H: 3,
	}
	return st, map[model.TaskID]string{1: "first", 2: "second"}
}

func TestRenderGraphDrawsBoxesAndEdge(t *testing.T) {
	st, titles := renderedState()
	out := renderGraph(st, titles, nil, 0, false, 0, false, 80, 24)
	for _, want := range []string{"first", "second", "┌", "┘", string(glyphEdge)} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGraphSelectionBorder(t *testing.T) {
	st, titles := renderedState()
	out := renderGraph(st, titles, nil, 1, true, 0, false, 80, 24)
	if !strings.Contains(out, "╔") {
		t.Fatalf("selected node not highlighted:\n%s", out)
	}
}

func TestRenderGraphAcceptanceIndicator(t *testing.T) {
	st, titles := renderedState()
	without := renderGraph(st, titles, nil, 0, false, 2, false, 80, 24)
	if strings.Contains(without, "▛") {
		t.Fatalf("acceptance border shown before grace elapsed")
	}
	with := renderGraph(st, titles, nil, 0, false, 2, true, 80, 24)
	if !strings.Contains(with, "▛") {
		t.Fatalf("acceptance border missing:\n%s", with)
	}
}

func TestRenderGraphMarksDoneAndCollapsed(t *testing.T) {
	st, titles := renderedState()
	n := st.Nodes[2]
	n.Collapsed = true
	st.Nodes[2] = n
	out := renderGraph(st, titles, map[model.TaskID]bool{1: true}, 0, false, 0, false, 80, 24)
	if !strings.Contains(out, glyphDone) {
		t.Fatalf("done marker missing:\n%s", out)
	}
	if !strings.Contains(out, glyphCollapsed) {
		t.Fatalf("collapsed marker missing:\n%s", out)
	}
}

func TestRenderGraphClipsToViewport(t *testing.T) {
	st, titles := renderedState()
	out := renderGraph(st, titles, nil, 0, false, 0, false, 10, 2)
	lines := strings.Split(out, "\n")
	if len(lines) > 2 {
		t.Fatalf("height not clipped: %d lines", len(lines))
	}
}
