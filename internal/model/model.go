package model

import "time"

// TaskID identifies a task within one document. IDs are assigned
// monotonically and wrap around; a wrapped counter probes for a free id so a
// live id is never reissued.
type TaskID uint32

// MaxTaskID is the largest assignable id; the counter wraps to 0 past it.
const MaxTaskID = TaskID(^uint32(0))

type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Category    string     `json:"category,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Work records time spent on the task, oldest first. At most the last
	// entry may be open.
	Work []TimeEntry `json:"work,omitempty"`

	// Children is kept sorted ascending so iteration order is reproducible.
	Children []TaskID `json:"children,omitempty"`
}

// TimeEntry is one stretch of work on a task. A nil End means the entry is
// still open.
type TimeEntry struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Clone returns a deep copy; slices are never shared with the receiver.
func (t *Task) Clone() *Task {
	cp := *t
	if t.Tags != nil {
		cp.Tags = append([]string(nil), t.Tags...)
	}
	if t.Children != nil {
		cp.Children = append([]TaskID(nil), t.Children...)
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		cp.CompletedAt = &at
	}
	if t.Work != nil {
		cp.Work = make([]TimeEntry, len(t.Work))
		for i, w := range t.Work {
			cp.Work[i] = w
			if w.End != nil {
				end := *w.End
				cp.Work[i].End = &end
			}
		}
	}
	return &cp
}

// HasChild reports whether id is a direct child of t.
func (t *Task) HasChild(id TaskID) bool {
	for _, c := range t.Children {
		if c == id {
			return true
		}
	}
	return false
}

// AddChild inserts id into the sorted child set. Reports whether the set
// changed.
func (t *Task) AddChild(id TaskID) bool {
	i := 0
	for ; i < len(t.Children); i++ {
		if t.Children[i] == id {
			return false
		}
		if t.Children[i] > id {
			break
		}
	}
	t.Children = append(t.Children, 0)
	copy(t.Children[i+1:], t.Children[i:])
	t.Children[i] = id
	return true
}

// RemoveChild deletes id from the child set. Reports whether it was present.
func (t *Task) RemoveChild(id TaskID) bool {
	for i, c := range t.Children {
		if c == id {
			t.Children = append(t.Children[:i], t.Children[i+1:]...)
			return true
		}
	}
	return false
}

// SearchText joins the fields fuzzy search ranks over.
func (t *Task) SearchText() string {
	s := t.Title + " " + t.Category + " " + t.Priority + " " + t.Description
	for _, tag := range t.Tags {
		s += " " + tag
	}
	return s
}

// Category styles a group of tasks. Categories are keyed by name.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"` // hex, e.g. "#5f87ff"

	// InheritToChildren assigns this category to newly created children of
	// tasks in it.
	InheritToChildren bool `json:"inheritToChildren,omitempty"`
}

// Priority orders tasks in the queue. Higher rank sorts first. Priorities are
// keyed by name; a fresh document seeds High, Medium and Low.
type Priority struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}
