package tui

import (
	"fmt"
	"strings"

	"taskweave/internal/graph"
	"taskweave/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type taskItem struct {
	id       model.TaskID
	title    string
	priority string
	category string
	status   graph.Status
}

func (i taskItem) FilterValue() string { return i.title }

func (i taskItem) Title() string {
	if i.status == graph.StatusDone {
		return glyphDone + " " + i.title
	}
	return i.title
}

func (i taskItem) Description() string {
	var parts []string
	if i.priority != "" {
		parts = append(parts, i.priority)
	}
	if i.category != "" {
		parts = append(parts, i.category)
	}
	parts = append(parts, fmt.Sprintf("#%d", i.id))
	return strings.Join(parts, " · ")
}

func newTaskItem(g *graph.Graph, id model.TaskID) taskItem {
	t, _ := g.Task(id)
	st, _ := g.Status(id)
	return taskItem{id: id, title: t.Title, priority: t.Priority, category: t.Category, status: st}
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

// sortMode orders list views. The default mirrors the queue; the rest match
// the fields a card shows.
type sortMode int

const (
	sortPriority sortMode = iota
	sortID
	sortTitle
	sortCategory
	sortModeCount
)

func (s sortMode) String() string {
	switch s {
	case sortID:
		return "id"
	case sortTitle:
		return "title"
	case sortCategory:
		return "category"
	default:
		return "priority"
	}
}

// less orders two tasks under this mode, with id as the universal tiebreak.
func (s sortMode) less(g *graph.Graph, a, b model.TaskID) bool {
	switch s {
	case sortTitle, sortCategory:
		ta, okA := g.Task(a)
		tb, okB := g.Task(b)
		if okA && okB {
			ka, kb := ta.Title, tb.Title
			if s == sortCategory {
				ka, kb = ta.Category, tb.Category
			}
			if ka != kb {
				return ka < kb
			}
		}
	case sortID:
	default:
		ra, rb := g.Rank(a), g.Rank(b)
		if ra != rb {
			return ra > rb
		}
	}
	return a < b
}

func sortIDs(g *graph.Graph, ids []model.TaskID, mode sortMode) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && mode.less(g, ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// columnItems splits the graph into the three board columns, each ordered by
// the active sort mode.
func columnItems(g *graph.Graph, mode sortMode) (ready, blocked, done []list.Item) {
	var r, bl, d []model.TaskID
	for _, id := range g.IDs() {
		switch st, _ := g.Status(id); st {
		case graph.StatusReady:
			r = append(r, id)
		case graph.StatusBlocked:
			bl = append(bl, id)
		default:
			d = append(d, id)
		}
	}
	for _, set := range [][]model.TaskID{r, bl, d} {
		sortIDs(g, set, mode)
	}
	for _, id := range r {
		ready = append(ready, newTaskItem(g, id))
	}
	for _, id := range bl {
		blocked = append(blocked, newTaskItem(g, id))
	}
	for _, id := range d {
		done = append(done, newTaskItem(g, id))
	}
	return ready, blocked, done
}

func queueItems(g *graph.Graph) []list.Item {
	var out []list.Item
	for _, id := range g.Unblocked() {
		out = append(out, newTaskItem(g, id))
	}
	return out
}
