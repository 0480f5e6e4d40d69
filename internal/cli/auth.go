package cli

import (
	"fmt"

	"canteen-client/internal/model"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(app *App) *cobra.Command {
	var email, password string
	var staff bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the ordering service",
		RunE: func(cmd *cobra.Command, args []string) error {
			userType := model.UserTypeStudent
			if staff {
				userType = model.UserTypeStaff
			}
			user, err := app.Session.Login(cmd.Context(), email, password, userType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&staff, "staff", false, "log in to the staff surface")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(app *App) *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Register(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. You can now log in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (8 characters minimum)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "password, repeated")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("confirm-password")

	return cmd
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.Session.Restore(cmd.Context())
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			role := "student"
			if user.Staff() {
				role = "staff"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.DisplayName(), user.Email, role)
			return nil
		},
	}
}
