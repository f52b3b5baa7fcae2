package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	"taskweave/internal/config"
	"taskweave/internal/doc"
	"taskweave/internal/graph"
	"taskweave/internal/interact"
	"taskweave/internal/layout"
	"taskweave/internal/model"
	"taskweave/internal/search"
	"taskweave/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewBoard view = iota
	viewQueue
	viewOutline
	viewGraph
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type appModel struct {
	ctx      context.Context
	document *doc.Document
	ch       *doc.ViewChannel
	cfg      config.Config

	g      *graph.Graph
	ctrl   *interact.Controller
	engine *layout.Engine
	state  layout.State

	view   view
	width  int
	height int

	readyList   list.Model
	blockedList list.Model
	doneList    list.Model
	column      int

	queueList list.Model

	searchInput textinput.Model
	searching   bool
	results     []search.Result

	titleInput textinput.Model
	adding     bool

	cursor    model.TaskID
	hasCursor bool
	order     []model.TaskID

	showDetail  bool
	sort        sortMode
	confirmQuit bool
	status      string
}

func newAppModel(ctx context.Context, d *doc.Document, cfg config.Config) appModel {
	m := appModel{
		ctx:      ctx,
		document: d,
		ch:       d.Attach(),
		cfg:      cfg,
		ctrl:     interact.NewController(cfg.DragGrace()),
		engine:   &layout.Engine{},
	}
	switch cfg.DefaultView {
	case "queue":
		m.view = viewQueue
	case "outline":
		m.view = viewOutline
	case "graph":
		m.view = viewGraph
	}

	m.readyList = newList("Ready")
	m.blockedList = newList("Blocked")
	m.doneList = newList("Done")
	m.queueList = newList("Queue")

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search tasks"
	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "task title"

	m.refresh(true)
	return m
}

func (m appModel) Init() tea.Cmd { return tick() }

// refresh pulls a fresh snapshot and rebuilds the derived views. relayout
// additionally reruns the layout engine; notes without the relayout flag
// skip it.
func (m *appModel) refresh(relayout bool) {
	m.g = m.document.Snapshot()

	if m.hasCursor {
		if _, ok := m.g.Task(m.cursor); !ok {
			m.ctrl.TaskDeleted(m.cursor)
			m.hasCursor = false
		}
	}
	if m.ctrl.Phase() != interact.Idle {
		if _, ok := m.g.Task(m.ctrl.Dragged()); !ok {
			m.ctrl.TaskDeleted(m.ctrl.Dragged())
		}
	}

	ready, blocked, done := columnItems(m.g, m.sort)
	m.readyList.SetItems(ready)
	m.blockedList.SetItems(blocked)
	m.doneList.SetItems(done)
	m.queueList.SetItems(queueItems(m.g))

	if relayout {
		m.state = m.engine.Layout(m.g, m.ctrl.LayoutOptions(m.cfg.HideCompleted))
		m.order = m.order[:0]
		for id := range m.state.Nodes {
			m.order = append(m.order, id)
		}
		sort.Slice(m.order, func(i, j int) bool {
			a, b := m.state.Nodes[m.order[i]], m.state.Nodes[m.order[j]]
			if a.X != b.X {
				return a.X < b.X
			}
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return m.order[i] < m.order[j]
		})
		if m.hasCursor {
			if _, ok := m.state.Nodes[m.cursor]; !ok {
				m.hasCursor = false
			}
		}
		if !m.hasCursor && len(m.order) > 0 {
			m.cursor = m.order[0]
			m.hasCursor = true
		}
	}
}

func (m *appModel) submit(op doc.Op, cmd graph.Command) {
	err := m.document.Submit(m.ctx, doc.Intent{Op: op, Cmd: cmd, From: m.ch})
	switch {
	case err == nil:
		if cmd != nil {
			m.status = cmd.String()
		}
	default:
		m.status = err.Error()
	}
}

func (m *appModel) drainNotes() {
	notes := m.ch.Drain()
	if len(notes) == 0 {
		return
	}
	relayout := false
	for _, n := range notes {
		if n.Relayout {
			relayout = true
		}
	}
	last := notes[len(notes)-1]
	if last.Origin != doc.OpApply {
		m.status = fmt.Sprintf("%s: %s", last.Origin, last.Summary)
	}
	m.refresh(relayout)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		m.ctrl.Tick(100 * time.Millisecond)
		m.drainNotes()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) resize() {
	colW := m.width/3 - 2
	colH := m.height - 4
	if colW < 10 {
		colW = 10
	}
	if colH < 4 {
		colH = 4
	}
	for _, l := range []*list.Model{&m.readyList, &m.blockedList, &m.doneList} {
		l.SetSize(colW, colH)
	}
	m.queueList.SetSize(m.width-2, m.height-4)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleAddKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.document.Detach(m.ch)
		return m, tea.Quit
	case "q":
		if m.document.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "unsaved changes; press q again to quit, s to save"
			return m, nil
		}
		m.document.Detach(m.ch)
		return m, tea.Quit
	case "o":
		m.sort = (m.sort + 1) % sortModeCount
		m.status = "sorted by " + m.sort.String()
		m.refresh(false)
		return m, nil
	case "1":
		m.view = viewBoard
		return m, nil
	case "2":
		m.view = viewQueue
		return m, nil
	case "3":
		m.view = viewOutline
		return m, nil
	case "4":
		m.view = viewGraph
		m.refresh(true)
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	case "n":
		m.adding = true
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		return m, textinput.Blink
	case "u":
		m.submit(doc.OpUndo, nil)
		return m, nil
	case "r":
		m.submit(doc.OpRedo, nil)
		return m, nil
	case "s":
		m.save()
		return m, nil
	}

	switch m.view {
	case viewBoard:
		return m.handleBoardKey(msg)
	case viewQueue:
		var cmd tea.Cmd
		m.queueList, cmd = m.queueList.Update(msg)
		return m, cmd
	case viewGraph:
		return m.handleGraphKey(msg)
	}
	return m, nil
}

func (m appModel) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		return m, nil
	case "enter":
		title := m.titleInput.Value()
		m.adding = false
		if title == "" {
			return m, nil
		}
		create := &graph.Create{Title: title}
		if m.view == viewGraph && m.hasCursor {
			parent := m.cursor
			create.Parent = &parent
		}
		m.submit(doc.OpApply, create)
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.results = nil
		return m, nil
	case "enter":
		if len(m.results) > 0 {
			m.cursor = m.results[0].ID
			m.hasCursor = true
			m.view = viewGraph
			m.refresh(true)
		}
		m.searching = false
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.results = search.Query(m.g, m.searchInput.Value())
	return m, cmd
}

func (m appModel) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := []*list.Model{&m.readyList, &m.blockedList, &m.doneList}[m.column]
	switch msg.String() {
	case "tab":
		m.column = (m.column + 1) % 3
		return m, nil
	case "shift+tab":
		m.column = (m.column + 2) % 3
		return m, nil
	case "enter":
		if it, ok := active.SelectedItem().(taskItem); ok {
			done := it.status != graph.StatusDone
			m.submit(doc.OpApply, &graph.SetField{ID: it.id, Field: graph.FieldCompleted, Value: done})
		}
		return m, nil
	case "d":
		if it, ok := active.SelectedItem().(taskItem); ok {
			m.submit(doc.OpApply, &graph.Delete{ID: it.id})
		}
		return m, nil
	case "w":
		if it, ok := active.SelectedItem().(taskItem); ok {
			m.toggleWork(it.id)
		}
		return m, nil
	}
	var cmd tea.Cmd
	*active, cmd = active.Update(msg)
	return m, cmd
}

func (m appModel) handleGraphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "g":
		if m.hasCursor {
			if err := m.ctrl.StartDrag(m.g, m.cursor); err != nil {
				m.status = err.Error()
			} else {
				m.status = "dragging; move to a target and hold"
			}
		}
	case "enter":
		if m.ctrl.Phase() != interact.Idle {
			if cmd, ok := m.ctrl.Release(); ok {
				m.submit(doc.OpApply, cmd)
			} else {
				m.status = "hold over the target a moment longer"
			}
			return m, nil
		}
		m.showDetail = !m.showDetail
	case "esc":
		if m.ctrl.Phase() != interact.Idle {
			m.ctrl.Cancel()
			m.status = "drag cancelled"
			return m, nil
		}
		m.showDetail = false
	case "c":
		if m.hasCursor {
			m.ctrl.ToggleCollapse(m.cursor)
			m.refresh(true)
		}
	case "f":
		if m.hasCursor {
			m.ctrl.Focus(m.cursor)
			m.refresh(true)
		}
	case "F":
		m.ctrl.ClearFocus()
		m.refresh(true)
	case "x":
		if m.hasCursor {
			t, ok := m.g.Task(m.cursor)
			if ok {
				m.submit(doc.OpApply, &graph.SetField{ID: m.cursor, Field: graph.FieldCompleted, Value: !t.Completed})
			}
		}
	case "d":
		if m.hasCursor {
			m.submit(doc.OpApply, &graph.Delete{ID: m.cursor})
		}
	case "w":
		if m.hasCursor {
			m.toggleWork(m.cursor)
		}
	}
	return m, nil
}

// toggleWork starts time tracking on a task, or stops the open entry.
func (m *appModel) toggleWork(id model.TaskID) {
	if m.g.Tracking(id) {
		m.submit(doc.OpApply, &graph.StopWork{ID: id})
	} else {
		m.submit(doc.OpApply, &graph.StartWork{ID: id})
	}
}

// moveCursor steps through visible nodes in column order. While a drag is
// active the step doubles as a hover on the node under the cursor.
func (m *appModel) moveCursor(delta int) {
	if len(m.order) == 0 {
		return
	}
	idx := 0
	for i, id := range m.order {
		if id == m.cursor {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.order)) % len(m.order)
	m.cursor = m.order[idx]
	m.hasCursor = true
	if m.ctrl.Phase() != interact.Idle {
		m.ctrl.Hover(m.g, m.cursor)
	}
}

func (m *appModel) save() {
	path := m.document.Path()
	if path == "" {
		m.status = "no file to save to"
		return
	}
	if err := store.Save(path, m.document.Snapshot().Export()); err != nil {
		m.status = err.Error()
		return
	}
	m.document.MarkSaved()
	store.TouchRecent(path)
	m.status = "saved " + path
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewBoard:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.readyList.View(), " ", m.blockedList.View(), " ", m.doneList.View())
	case viewQueue:
		body = m.queueList.View()
	case viewOutline:
		body = m.outlineView()
	case viewGraph:
		body = m.graphView()
	}

	if m.adding {
		body = m.titleInput.View() + "\n\n" + body
	}
	if m.searching {
		body = m.searchInput.View() + "\n" + m.searchResultsView() + "\n" + body
	}
	return body + "\n" + m.statusBar()
}

func (m appModel) graphView() string {
	titles := map[model.TaskID]string{}
	done := map[model.TaskID]bool{}
	for id := range m.state.Nodes {
		if t, ok := m.g.Task(id); ok {
			titles[id] = t.Title
			done[id] = t.Completed
		}
	}
	out := renderGraph(m.state, titles, done,
		m.cursor, m.hasCursor,
		m.ctrl.Target(), m.ctrl.AcceptanceVisible(),
		m.width, m.height-2)
	if m.showDetail && m.hasCursor {
		if t, ok := m.g.Task(m.cursor); ok {
			out += "\n" + m.detailView(t)
		}
	}
	return out
}

func (m appModel) detailView(t *model.Task) string {
	head := styleTitle().Render(t.Title)
	var meta string
	if t.Priority != "" {
		meta = styleMuted().Render(t.Priority)
	}
	if t.Category != "" {
		name := styleMuted().Render(t.Category)
		if cat, ok := m.g.Category(t.Category); ok && cat.Color != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render(t.Category)
		}
		if meta != "" {
			meta += styleMuted().Render(" · ")
		}
		meta += name
	}
	if meta != "" {
		head += "\n" + meta
	}
	if worked := m.g.Worked(t.ID, time.Now()); worked > 0 {
		line := "worked " + worked.Round(time.Second).String()
		if m.g.Tracking(t.ID) {
			line += " (tracking)"
		}
		head += "\n" + styleMuted().Render(line)
	}
	if t.Description == "" {
		return head
	}
	return head + "\n" + renderMarkdown(t.Description, m.width-4)
}

func (m appModel) searchResultsView() string {
	if len(m.results) == 0 {
		return styleMuted().Render("no matches")
	}
	out := ""
	max := 5
	for i, r := range m.results {
		if i == max {
			break
		}
		if t, ok := m.g.Task(r.ID); ok {
			out += fmt.Sprintf("#%d %s\n", r.ID, t.Title)
		}
	}
	return out
}

func (m appModel) statusBar() string {
	left := m.status
	if m.document.Dirty() {
		left = "* " + left
	}
	return styleMuted().Render(left)
}
