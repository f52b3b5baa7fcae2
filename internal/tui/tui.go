package tui

import (
	"context"

	"taskweave/internal/config"
	"taskweave/internal/doc"

	tea "github.com/charmbracelet/bubbletea"
)

// Run attaches a view to the document and blocks in the terminal UI until
// the user quits. The document loop must already be running.
func Run(ctx context.Context, d *doc.Document, cfg config.Config) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(ctx, d, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
