package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskweave/internal/graph"
	"taskweave/internal/model"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage category definitions",
	}

	var color string
	var inherit bool
	set := &cobra.Command{
		Use:   "set <file> <name>",
		Short: "Create or update a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyToFile(args[0], &graph.UpsertCategory{Category: model.Category{
				Name:              args[1],
				Color:             color,
				InheritToChildren: inherit,
			}})
		},
	}
	set.Flags().StringVar(&color, "color", "", "Hex color, e.g. #5f87ff")
	set.Flags().BoolVar(&inherit, "inherit", false, "New children of tasks in this category inherit it")

	rm := &cobra.Command{
		Use:   "rm <file> <name>",
		Short: "Delete a category; tasks keep the name, rendered unstyled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyToFile(args[0], &graph.DeleteCategory{Name: args[1]})
		},
	}

	ls := &cobra.Command{
		Use:   "list <file>",
		Short: "List category definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadForRead(args)
			if err != nil {
				return err
			}
			for _, c := range g.Categories() {
				line := c.Name
				if c.Color != "" {
					line += "\t" + c.Color
				}
				if c.InheritToChildren {
					line += "\tinherited by children"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.AddCommand(set, rm, ls)
	return cmd
}
