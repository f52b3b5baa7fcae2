package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

func newPriorityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Manage priority definitions",
	}

	var rank int
	set := &cobra.Command{
		Use:   "set <file> <name>",
		Short: "Create or update a priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyToFile(args[0], &graph.UpsertPriority{Priority: model.Priority{
				Name: args[1],
				Rank: rank,
			}})
		},
	}
	set.Flags().IntVar(&rank, "rank", 0, "Queue rank; higher sorts first")

	rm := &cobra.Command{
		Use:   "rm <file> <name>",
		Short: "Delete a priority; tasks referencing it rank as zero",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyToFile(args[0], &graph.DeletePriority{Name: args[1]})
		},
	}

	ls := &cobra.Command{
		Use:   "list <file>",
		Short: "List priority definitions, highest rank first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadForRead(args)
			if err != nil {
				return err
			}
			for _, p := range g.Priorities() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", p.Name, p.Rank)
			}
			return nil
		},
	}

	cmd.AddCommand(set, rm, ls)
	return cmd
}
