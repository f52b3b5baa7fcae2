package graph

import (
	"fmt"
	"reflect"
	"sort"

	"taskweave/internal/model"
)

// Snapshot is the portable form of a graph: plain values, tasks sorted by id.
// It is what the persistence boundary serializes.
type Snapshot struct {
	NextID     model.TaskID     `json:"nextId"`
	Tasks      []model.Task     `json:"tasks"`
	Categories []model.Category `json:"categories,omitempty"`
	Priorities []model.Priority `json:"priorities,omitempty"`
}

// Export copies the graph into a Snapshot. The result shares no memory with
// the graph.
func (g *Graph) Export() Snapshot {
	s := Snapshot{NextID: g.nextID}
	for _, id := range g.IDs() {
		s.Tasks = append(s.Tasks, *g.tasks[id].Clone())
	}
	s.Categories = g.Categories()
	s.Priorities = g.Priorities()
	return s
}

// FromSnapshot rebuilds a graph, validating the structural invariants: ids
// unique, child references resolvable, edge set acyclic. Loaded data that
// fails validation is rejected wholesale.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	if len(s.Priorities) > 0 {
		g.priorities = map[string]model.Priority{}
	}
	for _, p := range s.Priorities {
		g.priorities[p.Name] = p
	}
	for _, c := range s.Categories {
		g.categories[c.Name] = c
	}
	for i := range s.Tasks {
		t := s.Tasks[i].Clone()
		if _, dup := g.tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		sort.Slice(t.Children, func(a, b int) bool { return t.Children[a] < t.Children[b] })
		g.tasks[t.ID] = t
	}
	for _, id := range g.IDs() {
		t := g.tasks[id]
		for _, c := range t.Children {
			if _, ok := g.tasks[c]; !ok {
				return nil, fmt.Errorf("%w: task %d lists missing child %d", ErrUnknownTask, id, c)
			}
			g.addParent(c, id)
		}
	}
	if err := checkAcyclic(g); err != nil {
		return nil, err
	}
	g.nextID = s.NextID
	return g, nil
}

// checkAcyclic verifies the whole edge set with an iterative three-color DFS.
func checkAcyclic(g *Graph) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[model.TaskID]int, len(g.tasks))
	for _, root := range g.IDs() {
		if color[root] != white {
			continue
		}
		type frame struct {
			id   model.TaskID
			next int
		}
		stack := []frame{{id: root}}
		color[root] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			t := g.tasks[top.id]
			if top.next < len(t.Children) {
				c := t.Children[top.next]
				top.next++
				switch color[c] {
				case gray:
					return fmt.Errorf("%w: task %d reaches itself", ErrCycleDetected, c)
				case white:
					color[c] = gray
					stack = append(stack, frame{id: c})
				}
				continue
			}
			color[top.id] = black
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// Equal reports structural equality: same tasks, edges, categories and
// priorities. The id allocator cursor is deliberately excluded — undo does
// not rewind it.
func (g *Graph) Equal(other *Graph) bool {
	a, b := g.Export(), other.Export()
	a.NextID, b.NextID = 0, 0
	return reflect.DeepEqual(a, b)
}
