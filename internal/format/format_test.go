package format

import (
	"strings"
	"testing"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

func demo(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	a := &graph.Create{Title: "plan"}
	if _, err := a.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := a.ID()
	b := &graph.Create{Parent: &p, Title: "execute"}
	if _, err := b.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	return g
}

func TestDotContainsNodesAndEdges(t *testing.T) {
	g := demo(t)
	out := Dot(g)
	for _, want := range []string{"digraph tasks", "rankdir=LR", `label="plan"`, `label="execute"`, "n0 -> n1;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestDotGreysCompleted(t *testing.T) {
	g := demo(t)
	if _, err := (&graph.SetField{ID: 0, Field: graph.FieldCompleted, Value: true}).Apply(g); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(Dot(g), "color=gray") {
		t.Fatalf("completed task not greyed")
	}
}

func TestOutlineMarkersAndIndent(t *testing.T) {
	g := demo(t)
	out := Outline(g)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines; got %q", out)
	}
	if lines[0] != "[ ] plan" {
		t.Fatalf("root line = %q", lines[0])
	}
	// The child is blocked on its incomplete parent.
	if lines[1] != "  [~] execute" {
		t.Fatalf("child line = %q", lines[1])
	}
}

func TestQueueOrdering(t *testing.T) {
	g := graph.New()
	var ids []model.TaskID
	for _, title := range []string{"low", "high"} {
		c := &graph.Create{Title: title}
		if _, err := c.Apply(g); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, c.ID())
	}
	for i, prio := range []string{"Low", "High"} {
		if _, err := (&graph.SetField{ID: ids[i], Field: graph.FieldPriority, Value: prio}).Apply(g); err != nil {
			t.Fatalf("set priority: %v", err)
		}
	}

	out := Queue(g)
	if strings.Index(out, "high") > strings.Index(out, "low") {
		t.Fatalf("queue not priority ordered:\n%s", out)
	}
}
