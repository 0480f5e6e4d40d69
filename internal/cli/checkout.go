package cli

import (
	"fmt"

	"canteen-client/internal/checkout"
	"canteen-client/internal/model"

	"github.com/spf13/cobra"
)

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(app *App) *cobra.Command {
	var info checkout.CustomerInfo

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(app, cmd, info)
		},
	}

	cmd.Flags().StringVar(&info.Name, "name", "", "customer name (required)")
	cmd.Flags().StringVar(&info.Phone, "phone", "", "customer phone (required)")
	cmd.Flags().StringVar(&info.Email, "email", "", "customer email")
	cmd.Flags().StringVar(&info.RoomNumber, "room", "", "room number for delivery")
	cmd.Flags().StringVar(&info.Instructions, "note", "", "special instructions")
	cmd.Flags().StringVar(&info.PaymentMethod, "payment", model.PaymentCash, "payment method (cash|upi|card)")

	return cmd
}

func runCheckout(app *App, cmd *cobra.Command, info checkout.CustomerInfo) error {
	out := cmd.OutOrStdout()

	t := app.Cart.CheckoutTotals()
	fmt.Fprintf(out, "Placing order for %d item(s), total %.2f...\n", app.Cart.TotalQuantity(), t.Total)

	order, err := app.Checkout.Submit(cmd.Context(), info)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Order #%d placed. Status: %s\n", order.ID, order.Status)
	if order.TotalPrice.Float64() > 0 {
		fmt.Fprintf(out, "Amount due: %.2f\n", order.TotalPrice.Float64())
	}
	return nil
}
