// Package format renders graphs into text forms: graphviz dot for export and
// an indented outline for terminals.
package format

import (
	"fmt"
	"strings"

	"taskweave/internal/graph"
)

// Dot renders the graph in graphviz dot syntax, left to right like the graph
// view. Completed tasks are greyed, category colors carry over when a
// category defines one.
func Dot(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph tasks {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")
	for _, id := range g.IDs() {
		t, _ := g.Task(id)
		attrs := []string{fmt.Sprintf("label=%q", t.Title)}
		if t.Completed {
			attrs = append(attrs, "color=gray", "fontcolor=gray")
		} else if cat, ok := g.Category(t.Category); ok && cat.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", cat.Color))
		}
		fmt.Fprintf(&b, "  n%d [%s];\n", id, strings.Join(attrs, ", "))
	}
	for _, id := range g.IDs() {
		t, _ := g.Task(id)
		for _, c := range t.Children {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", id, c)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
