package tui

import (
	"strings"

	"taskweave/internal/format"
)

func (m appModel) outlineView() string {
	out := format.Outline(m.g)
	if out == "" {
		return styleMuted().Render("no tasks yet")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if m.height > 2 && len(lines) > m.height-2 {
		lines = lines[:m.height-2]
	}
	return strings.Join(lines, "\n")
}
