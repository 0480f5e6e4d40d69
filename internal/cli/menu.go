package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewMenuCommand creates the menu command.
func NewMenuCommand(app *App) *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Browse the menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(app, cmd, category, search)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "all", "filter by category name")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search name and description")

	return cmd
}

func runMenu(app *App, cmd *cobra.Command, category, search string) error {
	ctx := cmd.Context()
	if err := app.loadCatalog(ctx); err != nil {
		return err
	}

	items := app.Catalog.Filter(category, search)
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No items match.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tCATEGORY\tPRICE\t")
	for _, item := range items {
		name := item.Name
		if !item.Available {
			name += " (unavailable)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t\n", item.ID, name, item.CategoryName, item.Price.Float64())
	}
	return w.Flush()
}
