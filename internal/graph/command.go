package graph

import (
	"fmt"
	"strings"
	"time"

	"taskweave/internal/model"
)

// Command is a reversible mutation of a Graph. Apply validates against the
// current graph, commits, and returns the inverse command that undoes exactly
// this application. A failed Apply leaves the graph untouched.
type Command interface {
	Apply(g *Graph) (inverse Command, err error)

	// Structural reports whether the change affects graph layout (nodes or
	// edges). Non-structural changes do not require a relayout.
	Structural() bool

	fmt.Stringer
}

// Field names a mutable task field for SetField.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldTags        Field = "tags"
	FieldCategory    Field = "category"
	FieldPriority    Field = "priority"
	FieldCompleted   Field = "completed"
	FieldWork        Field = "work"
)

// completion is the captured prior value of the completed field; undo must
// restore the timestamp along with the flag.
type completion struct {
	Done bool
	At   *time.Time
}

// Create adds a new task, optionally as a child of Parent, with category
// inheritance applied when no explicit category is given. The allocated id is
// recorded on first apply so redo recreates the task under the same id.
type Create struct {
	Parent   *model.TaskID
	Category string
	Title    string

	id       model.TaskID
	assigned bool
}

// ID returns the id allocated by Apply.
func (c *Create) ID() model.TaskID { return c.id }

func (c *Create) Apply(g *Graph) (Command, error) {
	if c.assigned {
		if err := g.createTaskWithID(c.id, c.Parent, c.Category, c.Title); err != nil {
			return nil, err
		}
	} else {
		id, err := g.createTask(c.Parent, c.Category, c.Title)
		if err != nil {
			return nil, err
		}
		c.id = id
		c.assigned = true
	}
	return &Delete{ID: c.id}, nil
}

func (c *Create) Structural() bool { return true }

func (c *Create) String() string {
	if c.Parent != nil {
		return fmt.Sprintf("create task %q under %d", c.Title, *c.Parent)
	}
	return fmt.Sprintf("create task %q", c.Title)
}

// Delete removes a task. Its children lose this parent edge but are
// otherwise untouched; deletion never cascades.
type Delete struct {
	ID model.TaskID
}

func (c *Delete) Apply(g *Graph) (Command, error) {
	t, parents, err := g.deleteTask(c.ID)
	if err != nil {
		return nil, err
	}
	return &Restore{Task: t, ParentIDs: parents}, nil
}

func (c *Delete) Structural() bool { return true }
func (c *Delete) String() string   { return fmt.Sprintf("delete task %d", c.ID) }

// Restore reinserts a deleted task with its former edges. It only appears as
// the inverse of Delete.
type Restore struct {
	Task      *model.Task
	ParentIDs []model.TaskID
}

func (c *Restore) Apply(g *Graph) (Command, error) {
	if err := g.insertTask(c.Task, c.ParentIDs); err != nil {
		return nil, err
	}
	return &Delete{ID: c.Task.ID}, nil
}

func (c *Restore) Structural() bool { return true }
func (c *Restore) String() string   { return fmt.Sprintf("restore task %d", c.Task.ID) }

// Link adds Child to Parent's child set. Fails with ErrCycleDetected when the
// edge would make Parent a descendant of itself.
type Link struct {
	Parent model.TaskID
	Child  model.TaskID
}

func (c *Link) Apply(g *Graph) (Command, error) {
	if err := g.link(c.Parent, c.Child); err != nil {
		return nil, err
	}
	return &Unlink{Parent: c.Parent, Child: c.Child}, nil
}

func (c *Link) Structural() bool { return true }
func (c *Link) String() string   { return fmt.Sprintf("link %d -> %d", c.Parent, c.Child) }

// Unlink removes the Parent->Child edge.
type Unlink struct {
	Parent model.TaskID
	Child  model.TaskID
}

func (c *Unlink) Apply(g *Graph) (Command, error) {
	if err := g.unlink(c.Parent, c.Child); err != nil {
		return nil, err
	}
	return &Link{Parent: c.Parent, Child: c.Child}, nil
}

func (c *Unlink) Structural() bool { return true }
func (c *Unlink) String() string   { return fmt.Sprintf("unlink %d -> %d", c.Parent, c.Child) }

// SetField assigns one task field, capturing the prior value as the inverse.
type SetField struct {
	ID    model.TaskID
	Field Field
	Value any
}

func (c *SetField) Apply(g *Graph) (Command, error) {
	prev, err := g.setField(c.ID, c.Field, c.Value)
	if err != nil {
		return nil, err
	}
	return &SetField{ID: c.ID, Field: c.Field, Value: prev}, nil
}

// Title and completion changes alter a node's rendered box; the rest are
// label-only edits.
func (c *SetField) Structural() bool {
	return c.Field == FieldTitle || c.Field == FieldCompleted
}

func (c *SetField) String() string {
	return fmt.Sprintf("set %s of task %d", c.Field, c.ID)
}

// StartWork opens a time entry on a task. Its inverse restores the prior
// entry slice wholesale, so undo discards the opened entry.
type StartWork struct {
	ID model.TaskID
	At time.Time // zero means now
}

func (c *StartWork) Apply(g *Graph) (Command, error) {
	at := c.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	prev, err := g.startWork(c.ID, at)
	if err != nil {
		return nil, err
	}
	return &SetField{ID: c.ID, Field: FieldWork, Value: prev}, nil
}

func (c *StartWork) Structural() bool { return false }
func (c *StartWork) String() string   { return fmt.Sprintf("start work on task %d", c.ID) }

// StopWork closes a task's open time entry.
type StopWork struct {
	ID model.TaskID
	At time.Time // zero means now
}

func (c *StopWork) Apply(g *Graph) (Command, error) {
	at := c.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	prev, err := g.stopWork(c.ID, at)
	if err != nil {
		return nil, err
	}
	return &SetField{ID: c.ID, Field: FieldWork, Value: prev}, nil
}

func (c *StopWork) Structural() bool { return false }
func (c *StopWork) String() string   { return fmt.Sprintf("stop work on task %d", c.ID) }

// UpsertCategory creates or replaces a category definition.
type UpsertCategory struct {
	Category model.Category
}

func (c *UpsertCategory) Apply(g *Graph) (Command, error) {
	name := strings.TrimSpace(c.Category.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is empty")
	}
	cat := c.Category
	cat.Name = name
	if prev, ok := g.categories[name]; ok {
		g.categories[name] = cat
		return &UpsertCategory{Category: prev}, nil
	}
	g.categories[name] = cat
	return &DeleteCategory{Name: name}, nil
}

func (c *UpsertCategory) Structural() bool { return false }
func (c *UpsertCategory) String() string   { return fmt.Sprintf("upsert category %q", c.Category.Name) }

// DeleteCategory drops a category definition. Tasks keep the dangling name;
// it simply renders unstyled, matching how loads treat unknown categories.
type DeleteCategory struct {
	Name string
}

func (c *DeleteCategory) Apply(g *Graph) (Command, error) {
	prev, ok := g.categories[c.Name]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", c.Name)
	}
	delete(g.categories, c.Name)
	return &UpsertCategory{Category: prev}, nil
}

func (c *DeleteCategory) Structural() bool { return false }
func (c *DeleteCategory) String() string   { return fmt.Sprintf("delete category %q", c.Name) }

// UpsertPriority creates or replaces a priority definition.
type UpsertPriority struct {
	Priority model.Priority
}

func (c *UpsertPriority) Apply(g *Graph) (Command, error) {
	name := strings.TrimSpace(c.Priority.Name)
	if name == "" {
		return nil, fmt.Errorf("priority name is empty")
	}
	pr := c.Priority
	pr.Name = name
	if prev, ok := g.priorities[name]; ok {
		g.priorities[name] = pr
		return &UpsertPriority{Priority: prev}, nil
	}
	g.priorities[name] = pr
	return &DeletePriority{Name: name}, nil
}

func (c *UpsertPriority) Structural() bool { return false }
func (c *UpsertPriority) String() string   { return fmt.Sprintf("upsert priority %q", c.Priority.Name) }

// DeletePriority drops a priority definition; tasks referencing it rank as
// zero until it is redefined.
type DeletePriority struct {
	Name string
}

func (c *DeletePriority) Apply(g *Graph) (Command, error) {
	prev, ok := g.priorities[c.Name]
	if !ok {
		return nil, fmt.Errorf("unknown priority %q", c.Name)
	}
	delete(g.priorities, c.Name)
	return &UpsertPriority{Priority: prev}, nil
}

func (c *DeletePriority) Structural() bool { return false }
func (c *DeletePriority) String() string   { return fmt.Sprintf("delete priority %q", c.Name) }
