package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"canteen-client/internal/model"

	"github.com/spf13/cobra"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Kitchen order queue (staff only)",
	}

	cmd.AddCommand(newOrdersWatchCommand(app))
	cmd.AddCommand(newOrdersSetStatusCommand(app))

	return cmd
}

func newOrdersWatchCommand(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the live order queue until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersWatch(app, cmd, status)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "only show orders in this status")

	return cmd
}

func runOrdersWatch(app *App, cmd *cobra.Command, status string) error {
	if err := app.requireStaff(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f := app.newFeed(func(table string) {
		fmt.Fprintf(out, "\n--- orders @ %s ---\n%s\n", time.Now().Format(time.TimeOnly), table)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if status != "" {
		if err := f.SetFilter(ctx, status); err != nil {
			return err
		}
	}
	if err := f.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "Watching orders. Press Ctrl-C to stop.")
	<-ctx.Done()
	f.Stop()
	return nil
}

func newOrdersSetStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: fmt.Sprintf("Move an order to a new status (%v)", model.OrderStatuses),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			if err := app.newFeed(nil).UpdateStatus(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order #%d is now %s.\n", id, args[1])
			return nil
		},
	}
}
