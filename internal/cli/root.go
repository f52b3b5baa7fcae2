// Package cli wires the command line surface: the interactive TUI by
// default, plus scriptable subcommands for the queue and graph export.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskweave/internal/config"
	"taskweave/internal/doc"
	"taskweave/internal/graph"
	"taskweave/internal/store"
	"taskweave/internal/tui"
)

// App carries flag state across commands.
type App struct {
	View    string
	Verbose bool
}

// NewRootCmd builds the taskweave command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskweave [file]",
		Short:        "Task graphs with dependencies, live views and undo",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: `  # Open a document in the TUI
  taskweave tasks.json

  # What should I work on next?
  taskweave queue tasks.json

  # Export the graph for graphviz
  taskweave dot tasks.json | dot -Tsvg > tasks.svg`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.Verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(app, path)
		},
	}

	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&app.View, "view", "", "Startup view (board|queue|graph|outline)")

	cmd.AddCommand(newQueueCmd())
	cmd.AddCommand(newDotCmd())
	cmd.AddCommand(newRecentCmd())
	cmd.AddCommand(newCategoryCmd())
	cmd.AddCommand(newPriorityCmd())
	return cmd
}

// openDocument loads path if it exists, otherwise starts an empty document
// bound to it. An empty path means an unsaved scratch document.
func openDocument(path string) (*doc.Document, error) {
	if path == "" {
		return doc.New(graph.New(), ""), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var g *graph.Graph
	if fileMissing(abs) {
		g = graph.New()
	} else {
		g, err = store.Load(abs)
		if err != nil {
			return nil, err
		}
	}
	store.TouchRecent(abs)
	return doc.New(g, abs), nil
}

func fileMissing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

func runTUI(app *App, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if app.View != "" {
		cfg.DefaultView = app.View
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	d, err := openDocument(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("document loop stopped", "err", err)
		}
	}()

	if cfg.EventLog && d.Path() != "" {
		stop, err := recordChanges(ctx, d)
		if err != nil {
			log.Warn("change log disabled", "err", err)
		} else {
			defer stop()
		}
	}

	return tui.Run(ctx, d, cfg)
}

// recordChanges streams document notes into the sqlite change log next to
// the document file.
func recordChanges(ctx context.Context, d *doc.Document) (func(), error) {
	path := d.Path() + ".log.sqlite"
	l, err := store.OpenEventLog(ctx, path)
	if err != nil {
		return nil, err
	}
	ch := d.Attach()
	go func() {
		defer l.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch.Wake():
				for _, n := range ch.Drain() {
					if err := l.Append(ctx, n.Seq, n.Origin.String(), n.Summary, n.Relayout); err != nil {
						log.Debug("change log append failed", "err", err)
					}
				}
			}
		}
	}()
	return func() { d.Detach(ch) }, nil
}

func loadForRead(args []string) (*graph.Graph, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected a document file")
	}
	return store.Load(args[0])
}

// applyToFile runs one command against a document on disk and saves the
// result.
func applyToFile(path string, cmd graph.Command) error {
	g, err := store.Load(path)
	if err != nil {
		return err
	}
	if _, err := cmd.Apply(g); err != nil {
		return err
	}
	return store.Save(path, g.Export())
}
