package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskweave/internal/format"
)

func newQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue <file>",
		Short: "Print unblocked tasks, highest priority first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadForRead(args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), format.Queue(g))
			return nil
		},
	}
}

func newDotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot <file>",
		Short: "Export the task graph in graphviz dot syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadForRead(args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), format.Dot(g))
			return nil
		},
	}
}
