package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart",
	}

	cmd.AddCommand(newCartShowCommand(app))
	cmd.AddCommand(newCartAddCommand(app))
	cmd.AddCommand(newCartSetCommand(app))
	cmd.AddCommand(newCartRemoveCommand(app))
	cmd.AddCommand(newCartClearCommand(app))

	return cmd
}

func newCartShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(app, cmd)
		},
	}
}

func newCartAddCommand(app *App) *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Add a menu item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if qty < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}

			// Adds resolve against the live catalogue; the price seen
			// now is the price kept for this line.
			if err := app.loadCatalog(cmd.Context()); err != nil {
				return err
			}
			before := app.Cart.Quantity(id)
			for i := 0; i < qty; i++ {
				app.Cart.Add(id)
			}
			if app.Cart.Quantity(id) == before {
				return fmt.Errorf("item %d is unknown or unavailable", id)
			}
			return runCartShow(app, cmd)
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "units to add")

	return cmd
}

func newCartSetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Set the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			app.Cart.SetQuantity(id, qty)
			return runCartShow(app, cmd)
		},
	}
}

func newCartRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app.Cart.Remove(id)
			return runCartShow(app, cmd)
		},
	}
}

func newCartClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Cart.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}
}

func runCartShow(app *App, cmd *cobra.Command) error {
	items := app.Cart.Items()
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tPRICE\tQTY\tSUBTOTAL\t")
	for _, li := range items {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%.2f\t\n", li.ID, li.Name, li.Price.Float64(), li.Quantity, li.Subtotal())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	t := app.Cart.CheckoutTotals()
	fmt.Fprintf(out, "\nSubtotal: %.2f\nTax (5%%): %.2f\nTotal: %.2f\n", t.Subtotal, t.Tax, t.Total)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}
