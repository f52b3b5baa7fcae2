// Package search ranks tasks against a free-text query.
package search

import (
	"github.com/sahilm/fuzzy"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

// Result is one ranked hit.
type Result struct {
	ID    model.TaskID
	Score int
}

// Query fuzzy-matches the pattern against every task's searchable text
// (title, description, tags, category) and returns hits ranked best first.
// An empty pattern matches nothing.
func Query(g *graph.Graph, pattern string) []Result {
	if pattern == "" {
		return nil
	}
	ids := g.IDs()
	haystack := make([]string, len(ids))
	for i, id := range ids {
		t, _ := g.Task(id)
		haystack[i] = t.SearchText()
	}
	matches := fuzzy.Find(pattern, haystack)
	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = Result{ID: ids[m.Index], Score: m.Score}
	}
	return out
}
