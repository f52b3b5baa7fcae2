// Package layout computes deterministic left-to-right positions for a task
// graph. The same graph and options always produce the same geometry, so
// views can recompute freely without nodes jumping around.
package layout

import (
	"sort"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

const (
	nodeHeight = 3
	minNodeW   = 12
	maxNodeW   = 32
	padX       = 2
	gapX       = 6
	gapY       = 1
)

// Node is one task's box in layout space. Units are text cells.
type Node struct {
	X, Y      int
	W, H      int
	Collapsed bool
}

// Edge identifies one parent->child dependency.
type Edge struct {
	Parent model.TaskID
	Child  model.TaskID
}

// Point is a control point of an edge curve.
type Point struct {
	X, Y float64
}

// State is one complete layout pass. Nodes and Edges are a pure function of
// the graph and options; Generation counts passes and is the only field that
// differs between identical recomputes.
type State struct {
	Generation uint64
	Nodes      map[model.TaskID]Node
	Edges      map[Edge][]Point
	W, H       int
}

// Options narrow what a pass lays out.
type Options struct {
	// Collapsed hides the subtree below each listed task. The task itself
	// stays visible with its collapsed marker set.
	Collapsed map[model.TaskID]bool

	// Focus, when set, restricts the layout to the focused task and its
	// ancestors and descendants.
	Focus *model.TaskID

	// HideDone drops completed tasks and their edges.
	HideDone bool
}

// Engine owns the generation counter. One engine per view.
type Engine struct {
	gen uint64
}

// Layout runs one pass over the graph.
func (e *Engine) Layout(g *graph.Graph, opts Options) State {
	e.gen++
	s := State{
		Generation: e.gen,
		Nodes:      map[model.TaskID]Node{},
		Edges:      map[Edge][]Point{},
	}

	visible := visibleSet(g, opts)
	if len(visible) == 0 {
		return s
	}

	layers := assignLayers(g, visible)
	cols := make([][]model.TaskID, 0)
	for id, layer := range layers {
		for len(cols) <= layer {
			cols = append(cols, nil)
		}
		cols[layer] = append(cols[layer], id)
	}
	for _, col := range cols {
		sort.Slice(col, func(i, j int) bool { return col[i] < col[j] })
	}

	x := 0
	for _, col := range cols {
		colW := 0
		y := 0
		for _, id := range col {
			t, _ := g.Task(id)
			w := nodeWidth(t.Title)
			s.Nodes[id] = Node{X: x, Y: y, W: w, H: nodeHeight, Collapsed: opts.Collapsed[id]}
			if w > colW {
				colW = w
			}
			y += nodeHeight + gapY
		}
		if y-gapY > s.H {
			s.H = y - gapY
		}
		x += colW + gapX
	}
	s.W = x - gapX

	for parent := range visible {
		if opts.Collapsed[parent] {
			continue
		}
		t, _ := g.Task(parent)
		for _, child := range t.Children {
			if _, ok := s.Nodes[child]; !ok {
				continue
			}
			k := Edge{Parent: parent, Child: child}
			s.Edges[k] = curve(s.Nodes[parent], s.Nodes[child])
		}
	}
	return s
}

// visibleSet walks child edges from every visible root, stopping at collapsed
// nodes, then applies the done and focus filters.
func visibleSet(g *graph.Graph, opts Options) map[model.TaskID]bool {
	visible := map[model.TaskID]bool{}
	var walk func(id model.TaskID)
	walk = func(id model.TaskID) {
		if visible[id] {
			return
		}
		visible[id] = true
		if opts.Collapsed[id] {
			return
		}
		t, ok := g.Task(id)
		if !ok {
			return
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	for _, root := range g.Roots() {
		walk(root)
	}

	if opts.HideDone {
		for id := range visible {
			if t, ok := g.Task(id); ok && t.Completed {
				delete(visible, id)
			}
		}
	}
	if opts.Focus != nil {
		f := *opts.Focus
		for id := range visible {
			if id == f {
				continue
			}
			if g.Relation(f, id) == graph.RelationNone {
				delete(visible, id)
			}
		}
	}
	return visible
}

// assignLayers places each task one column right of its rightmost visible
// parent. Roots and tasks whose parents are all filtered out sit in column
// zero. The graph is acyclic so the longest-path recursion terminates.
func assignLayers(g *graph.Graph, visible map[model.TaskID]bool) map[model.TaskID]int {
	layers := make(map[model.TaskID]int, len(visible))
	var layerOf func(id model.TaskID) int
	layerOf = func(id model.TaskID) int {
		if l, ok := layers[id]; ok {
			return l
		}
		layers[id] = 0 // settles before recursion for filtered-parent chains
		l := 0
		for _, p := range g.Parents(id) {
			if !visible[p] {
				continue
			}
			if pl := layerOf(p) + 1; pl > l {
				l = pl
			}
		}
		layers[id] = l
		return l
	}
	for id := range visible {
		layerOf(id)
	}
	return layers
}

func nodeWidth(title string) int {
	w := len([]rune(title)) + 2*padX
	if w < minNodeW {
		w = minNodeW
	}
	if w > maxNodeW {
		w = maxNodeW
	}
	return w
}

// curve builds the four control points of a cubic bezier from the parent's
// right edge midpoint to the child's left edge midpoint, with horizontal
// control handles at the midpoint between them.
func curve(parent, child Node) []Point {
	p0 := Point{X: float64(parent.X + parent.W), Y: float64(parent.Y) + float64(parent.H)/2}
	p1 := Point{X: float64(child.X), Y: float64(child.Y) + float64(child.H)/2}
	mid := (p0.X + p1.X) / 2
	return []Point{p0, {X: mid, Y: p0.Y}, {X: mid, Y: p1.Y}, p1}
}

// At evaluates the curve at t in [0,1].
func At(pts []Point, t float64) Point {
	if len(pts) != 4 {
		return Point{}
	}
	u := 1 - t
	return Point{
		X: u*u*u*pts[0].X + 3*u*u*t*pts[1].X + 3*u*t*t*pts[2].X + t*t*t*pts[3].X,
		Y: u*u*u*pts[0].Y + 3*u*u*t*pts[1].Y + 3*u*t*t*pts[2].Y + t*t*t*pts[3].Y,
	}
}
