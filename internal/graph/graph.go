// Package graph holds the task DAG: an arena of tasks indexed by id, plus the
// category and priority tables. All structural mutation goes through methods
// that validate invariants up front; nothing is ever partially committed.
package graph

import (
	"fmt"
	"sort"
	"time"

	"taskweave/internal/model"
)

// Status is the derived state of a task with respect to its dependencies
// (its parents).
type Status int

const (
	StatusBlocked Status = iota
	StatusReady
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusDone:
		return "done"
	default:
		return "blocked"
	}
}

// Relation describes how two tasks relate through the edge set.
type Relation int

const (
	RelationNone Relation = iota
	RelationAncestor
	RelationDescendant
	RelationSelf
)

type Graph struct {
	tasks      map[model.TaskID]*model.Task
	parents    map[model.TaskID][]model.TaskID // derived from Children, kept sorted
	categories map[string]model.Category
	priorities map[string]model.Priority
	nextID     model.TaskID
}

// New returns an empty graph seeded with the three default priorities.
func New() *Graph {
	return &Graph{
		tasks:      map[model.TaskID]*model.Task{},
		parents:    map[model.TaskID][]model.TaskID{},
		categories: map[string]model.Category{},
		priorities: map[string]model.Priority{
			"High":   {Name: "High", Rank: 10},
			"Medium": {Name: "Medium", Rank: 5},
			"Low":    {Name: "Low", Rank: 1},
		},
	}
}

// Len reports the number of live tasks.
func (g *Graph) Len() int { return len(g.tasks) }

// Task returns the task for id. The returned pointer is owned by the graph;
// callers must treat it as read-only and mutate through commands.
func (g *Graph) Task(id model.TaskID) (*model.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// IDs returns all live task ids in ascending order. Every iteration in this
// package goes through id order so equal graphs produce equal output.
func (g *Graph) IDs() []model.TaskID {
	ids := make([]model.TaskID, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Parents returns the ids of tasks that list id as a child, ascending.
func (g *Graph) Parents(id model.TaskID) []model.TaskID {
	return g.parents[id]
}

// Roots returns the ids of tasks that are nobody's child, ascending.
func (g *Graph) Roots() []model.TaskID {
	var roots []model.TaskID
	for _, id := range g.IDs() {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

func (g *Graph) allocateID() model.TaskID {
	id := g.nextID
	for {
		if _, live := g.tasks[id]; !live {
			break
		}
		id++ // wraps past MaxTaskID back to 0
	}
	g.nextID = id + 1
	return id
}

// createTask allocates an id and inserts a new task. If parent is non-nil the
// new task is attached as its child; when the parent's category opts into
// inheritance and no explicit category was given, the category is copied.
func (g *Graph) createTask(parent *model.TaskID, category, title string) (model.TaskID, error) {
	if parent != nil {
		if _, ok := g.tasks[*parent]; !ok {
			return 0, fmt.Errorf("%w: %d", ErrInvalidParent, *parent)
		}
	}
	id := g.allocateID()
	return id, g.createTaskWithID(id, parent, category, title)
}

// createTaskWithID inserts a task under a caller-chosen id. Used by redo,
// which must recreate a task under the id recorded on first apply.
func (g *Graph) createTaskWithID(id model.TaskID, parent *model.TaskID, category, title string) error {
	if _, live := g.tasks[id]; live {
		return fmt.Errorf("task %d already exists", id)
	}
	var p *model.Task
	if parent != nil {
		var ok bool
		if p, ok = g.tasks[*parent]; !ok {
			return fmt.Errorf("%w: %d", ErrInvalidParent, *parent)
		}
	}
	t := &model.Task{ID: id, Title: title, Category: category}
	if category == "" && p != nil && p.Category != "" {
		if style, ok := g.categories[p.Category]; ok && style.InheritToChildren {
			t.Category = p.Category
		}
	}
	g.tasks[id] = t
	if p != nil {
		p.AddChild(id)
		g.addParent(id, p.ID)
	}
	return nil
}

// insertTask restores a previously deleted task together with its former
// parent edges. Its own child edges ride along inside the task value.
func (g *Graph) insertTask(t *model.Task, parentIDs []model.TaskID) error {
	if _, live := g.tasks[t.ID]; live {
		return fmt.Errorf("task %d already exists", t.ID)
	}
	for _, pid := range parentIDs {
		if _, ok := g.tasks[pid]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTask, pid)
		}
	}
	for _, cid := range t.Children {
		if _, ok := g.tasks[cid]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTask, cid)
		}
	}
	cp := t.Clone()
	g.tasks[cp.ID] = cp
	for _, cid := range cp.Children {
		g.addParent(cid, cp.ID)
	}
	for _, pid := range parentIDs {
		g.tasks[pid].AddChild(cp.ID)
		g.addParent(cp.ID, pid)
	}
	return nil
}

// deleteTask removes a task and every edge touching it. Children keep their
// other parents; nothing cascades. Returns the removed task (with its child
// list intact) and its former parent ids, for undo.
func (g *Graph) deleteTask(id model.TaskID) (*model.Task, []model.TaskID, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	former := append([]model.TaskID(nil), g.parents[id]...)
	for _, pid := range former {
		g.tasks[pid].RemoveChild(id)
	}
	for _, cid := range t.Children {
		g.removeParent(cid, id)
	}
	delete(g.parents, id)
	delete(g.tasks, id)
	return t, former, nil
}

// CanLink reports whether child may be added under parent: both ends live,
// the edge not already present, and no cycle. Used eagerly by drag-and-drop
// so views can show acceptance before any edit is issued.
func (g *Graph) CanLink(parent, child model.TaskID) bool {
	if parent == child {
		return false
	}
	p, ok := g.tasks[parent]
	if !ok || p.HasChild(child) {
		return false
	}
	if _, ok := g.tasks[child]; !ok {
		return false
	}
	return !g.reachable(child, parent)
}

// reachable reports whether to can be reached from from by following child
// edges.
func (g *Graph) reachable(from, to model.TaskID) bool {
	stack := []model.TaskID{from}
	seen := map[model.TaskID]bool{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if t, ok := g.tasks[cur]; ok {
			stack = append(stack, t.Children...)
		}
	}
	return false
}

// link adds a parent->child edge after checking both endpoints exist, the
// edge is new, and the edge keeps the graph acyclic.
func (g *Graph) link(parent, child model.TaskID) error {
	p, ok := g.tasks[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, parent)
	}
	if _, ok := g.tasks[child]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, child)
	}
	if p.HasChild(child) {
		return fmt.Errorf("%w: %d -> %d", ErrDuplicateEdge, parent, child)
	}
	if parent == child || g.reachable(child, parent) {
		return fmt.Errorf("%w: %d -> %d", ErrCycleDetected, parent, child)
	}
	p.AddChild(child)
	g.addParent(child, parent)
	return nil
}

// unlink removes a parent->child edge. Removing an edge that is not present
// is reported as ErrUnknownTask: it means the caller acted on a stale view.
func (g *Graph) unlink(parent, child model.TaskID) error {
	p, ok := g.tasks[parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, parent)
	}
	if !p.RemoveChild(child) {
		return fmt.Errorf("%w: %d is not a child of %d", ErrUnknownTask, child, parent)
	}
	g.removeParent(child, parent)
	return nil
}

func (g *Graph) addParent(child, parent model.TaskID) {
	ps := g.parents[child]
	i := sort.Search(len(ps), func(i int) bool { return ps[i] >= parent })
	if i < len(ps) && ps[i] == parent {
		return
	}
	ps = append(ps, 0)
	copy(ps[i+1:], ps[i:])
	ps[i] = parent
	g.parents[child] = ps
}

func (g *Graph) removeParent(child, parent model.TaskID) {
	ps := g.parents[child]
	for i, p := range ps {
		if p == parent {
			ps = append(ps[:i], ps[i+1:]...)
			break
		}
	}
	if len(ps) == 0 {
		delete(g.parents, child)
	} else {
		g.parents[child] = ps
	}
}

// Status classifies id: done when completed, ready when every parent
// dependency is completed, blocked otherwise.
func (g *Graph) Status(id model.TaskID) (Status, error) {
	t, ok := g.tasks[id]
	if !ok {
		return StatusBlocked, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	if t.Completed {
		return StatusDone, nil
	}
	for _, pid := range g.parents[id] {
		if !g.tasks[pid].Completed {
			return StatusBlocked, nil
		}
	}
	return StatusReady, nil
}

// Rank resolves a task's numeric priority rank. Tasks without a priority, or
// with a priority name that has no definition, rank as zero.
func (g *Graph) Rank(id model.TaskID) int {
	t, ok := g.tasks[id]
	if !ok || t.Priority == "" {
		return 0
	}
	return g.priorities[t.Priority].Rank
}

// Unblocked is the queue projection: incomplete tasks whose parents are all
// complete, ordered by priority rank descending then id ascending.
func (g *Graph) Unblocked() []model.TaskID {
	var out []model.TaskID
	for _, id := range g.IDs() {
		if st, _ := g.Status(id); st == StatusReady {
			out = append(out, id)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := g.Rank(out[i]), g.Rank(out[j])
		if ri != rj {
			return ri > rj
		}
		return out[i] < out[j]
	})
	return out
}

// Relation reports how other relates to target through the edge set.
func (g *Graph) Relation(target, other model.TaskID) Relation {
	if target == other {
		return RelationSelf
	}
	if g.reachable(target, other) {
		return RelationDescendant
	}
	if g.reachable(other, target) {
		return RelationAncestor
	}
	return RelationNone
}

// Walk visits the tree rooted at id depth-first, children in id order. A node
// reachable along several paths is visited once per path; acyclicity bounds
// the walk.
func (g *Graph) Walk(id model.TaskID, fn func(id model.TaskID, depth int)) {
	g.walk(id, 0, fn)
}

func (g *Graph) walk(id model.TaskID, depth int, fn func(model.TaskID, int)) {
	t, ok := g.tasks[id]
	if !ok {
		return
	}
	fn(id, depth)
	for _, c := range t.Children {
		g.walk(c, depth+1, fn)
	}
}

// setField mutates a single field and returns the prior value for undo.
func (g *Graph) setField(id model.TaskID, f Field, v any) (any, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	switch f {
	case FieldTitle:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: want string, got %T", f, v)
		}
		prev := t.Title
		t.Title = s
		return prev, nil
	case FieldDescription:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: want string, got %T", f, v)
		}
		prev := t.Description
		t.Description = s
		return prev, nil
	case FieldTags:
		tags, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("field %s: want []string, got %T", f, v)
		}
		prev := append([]string(nil), t.Tags...)
		t.Tags = append([]string(nil), tags...)
		sort.Strings(t.Tags)
		return prev, nil
	case FieldCategory:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: want string, got %T", f, v)
		}
		prev := t.Category
		t.Category = s
		return prev, nil
	case FieldPriority:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: want string, got %T", f, v)
		}
		prev := t.Priority
		t.Priority = s
		return prev, nil
	case FieldCompleted:
		prev := completion{Done: t.Completed, At: t.CompletedAt}
		switch val := v.(type) {
		case bool:
			t.Completed = val
			if val {
				now := time.Now().UTC()
				t.CompletedAt = &now
			} else {
				t.CompletedAt = nil
			}
		case completion:
			t.Completed = val.Done
			t.CompletedAt = val.At
		default:
			return nil, fmt.Errorf("field %s: want bool, got %T", f, v)
		}
		return prev, nil
	case FieldWork:
		entries, ok := v.([]model.TimeEntry)
		if !ok {
			return nil, fmt.Errorf("field %s: want []model.TimeEntry, got %T", f, v)
		}
		prev := cloneWork(t.Work)
		t.Work = cloneWork(entries)
		return prev, nil
	default:
		return nil, fmt.Errorf("unknown field %q", f)
	}
}

func cloneWork(entries []model.TimeEntry) []model.TimeEntry {
	if entries == nil {
		return nil
	}
	out := make([]model.TimeEntry, len(entries))
	for i, w := range entries {
		out[i] = w
		if w.End != nil {
			end := *w.End
			out[i].End = &end
		}
	}
	return out
}

// startWork opens a time entry on id. At most one entry may be open; the
// prior entry slice is returned for undo.
func (g *Graph) startWork(id model.TaskID, now time.Time) ([]model.TimeEntry, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	if openEntry(t) >= 0 {
		return nil, fmt.Errorf("task %d already has an open time entry", id)
	}
	prev := cloneWork(t.Work)
	t.Work = append(t.Work, model.TimeEntry{Start: now})
	return prev, nil
}

// stopWork closes id's open time entry, returning the prior slice for undo.
func (g *Graph) stopWork(id model.TaskID, now time.Time) ([]model.TimeEntry, error) {
	t, ok := g.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	i := openEntry(t)
	if i < 0 {
		return nil, fmt.Errorf("task %d has no open time entry", id)
	}
	prev := cloneWork(t.Work)
	end := now
	t.Work[i].End = &end
	return prev, nil
}

// openEntry returns the index of t's open time entry, or -1.
func openEntry(t *model.Task) int {
	for i := len(t.Work) - 1; i >= 0; i-- {
		if t.Work[i].End == nil {
			return i
		}
	}
	return -1
}

// Tracking reports whether id has an open time entry.
func (g *Graph) Tracking(id model.TaskID) bool {
	t, ok := g.tasks[id]
	return ok && openEntry(t) >= 0
}

// Worked sums id's time entries. An open entry counts up to now.
func (g *Graph) Worked(id model.TaskID, now time.Time) time.Duration {
	t, ok := g.tasks[id]
	if !ok {
		return 0
	}
	var total time.Duration
	for _, w := range t.Work {
		end := now
		if w.End != nil {
			end = *w.End
		}
		if end.After(w.Start) {
			total += end.Sub(w.Start)
		}
	}
	return total
}

// Category / priority tables.

func (g *Graph) Category(name string) (model.Category, bool) {
	c, ok := g.categories[name]
	return c, ok
}

// Categories returns the category table sorted by name.
func (g *Graph) Categories() []model.Category {
	out := make([]model.Category, 0, len(g.categories))
	for _, c := range g.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (g *Graph) PriorityDef(name string) (model.Priority, bool) {
	p, ok := g.priorities[name]
	return p, ok
}

// Priorities returns the priority table sorted by rank descending, name
// ascending.
func (g *Graph) Priorities() []model.Priority {
	out := make([]model.Priority, 0, len(g.priorities))
	for _, p := range g.priorities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Clone returns a deep copy sharing nothing with the receiver.
func (g *Graph) Clone() *Graph {
	cp := &Graph{
		tasks:      make(map[model.TaskID]*model.Task, len(g.tasks)),
		parents:    make(map[model.TaskID][]model.TaskID, len(g.parents)),
		categories: make(map[string]model.Category, len(g.categories)),
		priorities: make(map[string]model.Priority, len(g.priorities)),
		nextID:     g.nextID,
	}
	for id, t := range g.tasks {
		cp.tasks[id] = t.Clone()
	}
	for id, ps := range g.parents {
		cp.parents[id] = append([]model.TaskID(nil), ps...)
	}
	for name, c := range g.categories {
		cp.categories[name] = c
	}
	for name, p := range g.priorities {
		cp.priorities[name] = p
	}
	return cp
}
