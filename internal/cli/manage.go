package cli

import (
	"fmt"

	"canteen-client/internal/api"

	"github.com/spf13/cobra"
)

// NewManageCommand creates the manage command group for the menu
// administration surface.
func NewManageCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Menu administration (staff only)",
	}

	cmd.AddCommand(newManageCategoryCommand(app))
	cmd.AddCommand(newManageItemCommand(app))

	return cmd
}

func newManageCategoryCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage menu categories",
	}

	var req api.CategoryRequest
	addFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&req.Name, "name", "", "category name")
		c.Flags().StringVar(&req.Description, "description", "", "category description")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			created, err := app.API.CreateCategory(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category #%d %q created.\n", created.ID, created.Name)
			return nil
		},
	}
	addFlags(create)
	create.MarkFlagRequired("name")

	update := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := app.API.UpdateCategory(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category #%d updated.\n", updated.ID)
			return nil
		},
	}
	addFlags(update)

	remove := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.API.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category #%d deleted.\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}

func newManageItemCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage menu items",
	}

	var req api.MenuItemRequest
	addFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&req.Name, "name", "", "item name")
		c.Flags().StringVar(&req.Description, "description", "", "item description")
		c.Flags().Float64Var(&req.Price, "price", 0, "item price")
		c.Flags().Int64Var(&req.CategoryID, "category", 0, "category id")
		c.Flags().BoolVar(&req.Available, "available", true, "whether the item can be ordered")
		c.Flags().StringVar(&req.ImagePath, "image", "", "path to an image to upload")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a menu item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			created, err := app.API.CreateMenuItem(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item #%d %q created.\n", created.ID, created.Name)
			return nil
		},
	}
	addFlags(create)
	create.MarkFlagRequired("name")
	create.MarkFlagRequired("price")
	create.MarkFlagRequired("category")

	update := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := app.API.UpdateMenuItem(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item #%d updated.\n", updated.ID)
			return nil
		},
	}
	addFlags(update)

	remove := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStaff(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.API.DeleteMenuItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item #%d deleted.\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}
