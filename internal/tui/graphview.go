package tui

import (
	"strings"

	"taskweave/internal/layout"
	"taskweave/internal/model"

	"github.com/charmbracelet/x/ansi"
)

const (
	glyphDone      = "✓"
	glyphCollapsed = "⊞"
	glyphEdge      = '·'
)

type borderSet struct {
	tl, tr, bl, br, h, v rune
}

var (
	borderNormal    = borderSet{'┌', '┐', '└', '┘', '─', '│'}
	borderSelected  = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	borderCandidate = borderSet{'▛', '▜', '▙', '▟', '▀', '▌'}
)

type graphCanvas struct {
	cells [][]rune
}

func newCanvas(w, h int) *graphCanvas {
	cells := make([][]rune, h)
	for i := range cells {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &graphCanvas{cells: cells}
}

func (c *graphCanvas) set(x, y int, r rune) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return
	}
	c.cells[y][x] = r
}

// renderGraph draws one layout pass as text. selected gets the heavy border;
// while a drag candidate is being timed out, the target's border switches to
// the acceptance set the moment the grace period has elapsed.
func renderGraph(st layout.State, titles map[model.TaskID]string, done map[model.TaskID]bool,
	selected model.TaskID, hasSelection bool, acceptTarget model.TaskID, showAccept bool,
	width, height int) string {

	c := newCanvas(st.W+2, st.H+2)

	// Edges under nodes: sample each curve densely enough that adjacent
	// plotted cells touch.
	for _, pts := range st.Edges {
		steps := int(pts[3].X-pts[0].X) * 2
		if steps < 8 {
			steps = 8
		}
		for i := 0; i <= steps; i++ {
			p := layout.At(pts, float64(i)/float64(steps))
			c.set(int(p.X), int(p.Y), glyphEdge)
		}
	}

	for id, n := range st.Nodes {
		border := borderNormal
		if hasSelection && id == selected {
			border = borderSelected
		}
		if showAccept && id == acceptTarget {
			border = borderCandidate
		}
		drawBox(c, n, border)
		label := titles[id]
		if done[id] {
			label = glyphDone + " " + label
		}
		if n.Collapsed {
			label = label + " " + glyphCollapsed
		}
		drawLabel(c, n, label)
	}

	lines := make([]string, 0, len(c.cells))
	for _, row := range c.cells {
		lines = append(lines, strings.TrimRight(string(row), " "))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	if width > 0 {
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

func drawBox(c *graphCanvas, n layout.Node, b borderSet) {
	x2, y2 := n.X+n.W-1, n.Y+n.H-1
	c.set(n.X, n.Y, b.tl)
	c.set(x2, n.Y, b.tr)
	c.set(n.X, y2, b.bl)
	c.set(x2, y2, b.br)
	for x := n.X + 1; x < x2; x++ {
		c.set(x, n.Y, b.h)
		c.set(x, y2, b.h)
	}
	for y := n.Y + 1; y < y2; y++ {
		c.set(n.X, y, b.v)
		c.set(x2, y, b.v)
	}
}

func drawLabel(c *graphCanvas, n layout.Node, label string) {
	runes := []rune(label)
	max := n.W - 2
	if max <= 0 {
		return
	}
	if len(runes) > max {
		runes = runes[:max]
	}
	y := n.Y + n.H/2
	for i, r := range runes {
		c.set(n.X+1+i, y, r)
	}
}
