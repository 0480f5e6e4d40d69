// Package cli implements the kiosk terminal commands. Each command is a
// thin shell over the client packages; all ordering logic lives there.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the kiosk CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	app := &App{}

	cmd := &cobra.Command{
		Use:           "kiosk",
		Short:         "Canteen ordering kiosk",
		Long:          "A terminal client for the canteen ordering service: browse the menu, build a cart, place orders and watch the kitchen queue.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMenuCommand(app))
	cmd.AddCommand(NewCartCommand(app))
	cmd.AddCommand(NewCheckoutCommand(app))
	cmd.AddCommand(NewLoginCommand(app))
	cmd.AddCommand(NewLogoutCommand(app))
	cmd.AddCommand(NewRegisterCommand(app))
	cmd.AddCommand(NewWhoamiCommand(app))
	cmd.AddCommand(NewOrdersCommand(app))
	cmd.AddCommand(NewManageCommand(app))

	return cmd
}
