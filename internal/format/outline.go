package format

import (
	"fmt"
	"strings"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

// Outline renders the graph as an indented tree, roots first, children in id
// order. A task reachable from several parents appears under each of them.
func Outline(g *graph.Graph) string {
	var b strings.Builder
	for _, root := range g.Roots() {
		g.Walk(root, func(id model.TaskID, depth int) {
			t, _ := g.Task(id)
			st, _ := g.Status(id)
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", depth), marker(st), t.Title)
		})
	}
	return b.String()
}

func marker(st graph.Status) string {
	switch st {
	case graph.StatusDone:
		return "[x]"
	case graph.StatusBlocked:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Queue renders the unblocked tasks one per line, highest priority first.
func Queue(g *graph.Graph) string {
	var b strings.Builder
	for _, id := range g.Unblocked() {
		t, _ := g.Task(id)
		if t.Priority != "" {
			fmt.Fprintf(&b, "%d\t%s\t(%s)\n", id, t.Title, t.Priority)
			continue
		}
		fmt.Fprintf(&b, "%d\t%s\n", id, t.Title)
	}
	return b.String()
}
