package main

import (
	"github.com/spf13/cobra"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

func itemID(item models.ShoppingItem) string { return item.ID }

func newShopCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Manage the shopping list",
	}

	var input lists.ShoppingInput
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Put an item on the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			input.Name = args[0]
			if err := check(app.shopping.Create(cmd.Context(), input)); err != nil {
				return err
			}
			app.printf("%s %s (%s)\n", successStyle.Render("added"), input.Name, lists.Categorize(input.Name))
			return nil
		},
	}
	add.Flags().StringVar(&input.Amount, "amount", "", "amount, e.g. 2 or 500 g")
	add.Flags().BoolVar(&input.Shared, "shared", false, "share with the household")

	// withItem loads the list and resolves the first argument.
	withItem := func(run func(cmd *cobra.Command, id string) lists.Result) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if _, err := app.fetched(cmd.Context(), app.shopping.Fetch); err != nil {
				return err
			}
			id, err := resolve(app.shopping.Items(), args[0], itemID)
			if err != nil {
				return err
			}
			return check(run(cmd, id))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the shopping list by category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.fetched(cmd.Context(), app.shopping.Fetch); err != nil {
					return err
				}
				app.printf("%s", renderShopping(app.shopping.Items()))
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "toggle <item>",
			Short: "Mark an item bought or open",
			Args:  cobra.ExactArgs(1),
			RunE: withItem(func(cmd *cobra.Command, id string) lists.Result {
				return app.shopping.Toggle(cmd.Context(), id)
			}),
		},
		&cobra.Command{
			Use:   "rm <item>",
			Short: "Remove an item",
			Args:  cobra.ExactArgs(1),
			RunE: withItem(func(cmd *cobra.Command, id string) lists.Result {
				item, _ := find(app.shopping.Items(), id, itemID)
				result := app.shopping.Delete(cmd.Context(), id)
				if !result.Success {
					return result
				}
				if err := remember(app.undo, "item", item); err != nil {
					return lists.Result{Error: err.Error()}
				}
				app.printf("%s %s, run hb shop restore to undo\n", successStyle.Render("removed"), item.Name)
				return result
			}),
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Put the last removed item back on the list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.signedIn(cmd.Context()); err != nil {
					return err
				}
				item, err := recall[models.ShoppingItem](app.undo, "item")
				if err != nil {
					return err
				}
				if err := check(app.shopping.Restore(cmd.Context(), item)); err != nil {
					return err
				}
				app.printf("%s %s\n", successStyle.Render("restored"), item.Name)
				return app.undo.forget("item")
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every bought item",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.fetched(cmd.Context(), app.shopping.Fetch); err != nil {
					return err
				}
				return check(app.shopping.ClearDone(cmd.Context()))
			},
		},
	)
	return cmd
}
