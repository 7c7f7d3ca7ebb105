package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

func recipeID(recipe models.Recipe) string { return recipe.ID }

func ingredientID(ingredient models.Ingredient) string { return ingredient.ID }

// ingredientChanges holds the values of the ingredient edit flags.
type ingredientChanges struct {
	name, amount, unit string
}

// fields returns only the flags set on the command line.
func (flags ingredientChanges) fields(cmd *cobra.Command) map[string]any {
	fields := make(map[string]any)
	for flag, value := range map[string]string{"name": flags.name, "amount": flags.amount, "unit": flags.unit} {
		if cmd.Flags().Changed(flag) {
			fields[flag] = value
		}
	}
	return fields
}

func newRecipesCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipes",
	}

	// withRecipe loads the recipes and resolves the first argument.
	withRecipe := func(run func(cmd *cobra.Command, recipe models.Recipe, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if _, err := app.fetched(cmd.Context(), app.recipes.Fetch); err != nil {
				return err
			}
			items := app.recipes.Items()
			id, err := resolve(items, args[0], recipeID)
			if err != nil {
				return err
			}
			for _, recipe := range items {
				if recipe.ID == id {
					return run(cmd, recipe, args[1:])
				}
			}
			return nil
		}
	}

	var input lists.RecipeInput
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			input.Title = args[0]
			if err := check(app.recipes.Create(cmd.Context(), input)); err != nil {
				return err
			}
			app.printf("%s %s\n", successStyle.Render("added"), input.Title)
			return nil
		},
	}
	add.Flags().StringVar(&input.Description, "description", "", "short description")
	add.Flags().StringVar(&input.Steps, "steps", "", "preparation steps")
	add.Flags().StringVar(&input.Tags, "tags", "", "comma separated tags")
	add.Flags().BoolVar(&input.Shared, "shared", false, "share with the household")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recipes, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.fetched(cmd.Context(), app.recipes.Fetch); err != nil {
					return err
				}
				app.printf("%s", renderRecipes(app.recipes.Items()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <recipe>",
			Short: "Show a recipe with its ingredients",
			Args:  cobra.ExactArgs(1),
			RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, _ []string) error {
				app.printf("%s", renderRecipe(recipe))
				return nil
			}),
		},
		add,
		&cobra.Command{
			Use:   "fav <recipe>",
			Short: "Mark or unmark a recipe as favorite",
			Args:  cobra.ExactArgs(1),
			RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, _ []string) error {
				return check(app.recipes.ToggleFavorite(cmd.Context(), recipe.ID))
			}),
		},
		&cobra.Command{
			Use:   "rm <recipe>",
			Short: "Delete a recipe",
			Args:  cobra.ExactArgs(1),
			RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, _ []string) error {
				if err := check(app.recipes.Delete(cmd.Context(), recipe.ID)); err != nil {
					return err
				}
				if err := remember(app.undo, "recipe", recipe); err != nil {
					return err
				}
				app.printf("%s %s, run hb recipes restore to undo\n", successStyle.Render("deleted"), recipe.Title)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Create the last deleted recipe again with its ingredients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.signedIn(cmd.Context()); err != nil {
					return err
				}
				recipe, err := recall[models.Recipe](app.undo, "recipe")
				if err != nil {
					return err
				}
				if err := check(app.recipes.Restore(cmd.Context(), recipe)); err != nil {
					return err
				}
				app.printf("%s %s\n", successStyle.Render("restored"), recipe.Title)
				return app.undo.forget("recipe")
			},
		},
		&cobra.Command{
			Use:   "shop <recipe>",
			Short: "Put the ingredients of a recipe on the shopping list",
			Args:  cobra.ExactArgs(1),
			RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, _ []string) error {
				return check(app.shopping.AddRecipe(cmd.Context(), recipe))
			}),
		},
		newIngredientCommand(app, withRecipe),
	)
	return cmd
}

func newIngredientCommand(app *app, withRecipe func(func(*cobra.Command, models.Recipe, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredient",
		Short: "Manage the ingredients of a recipe",
	}

	var input lists.IngredientInput
	add := &cobra.Command{
		Use:   "add <recipe> <name>",
		Short: "Add an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, args []string) error {
			input.Name = args[0]
			return check(app.recipes.CreateIngredient(cmd.Context(), recipe.ID, input))
		}),
	}
	add.Flags().StringVar(&input.Amount, "amount", "", "amount, e.g. 200")
	add.Flags().StringVar(&input.Unit, "unit", "", "unit, e.g. g")

	var changes ingredientChanges
	edit := &cobra.Command{
		Use:   "edit <recipe> <ingredient>",
		Short: "Change the name, amount or unit of an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, args []string) error {
			id, err := resolve(recipe.Expand.Ingredients, args[0], ingredientID)
			if err != nil {
				return err
			}
			fields := changes.fields(cmd)
			if len(fields) == 0 {
				return errors.New("nothing to change, pass --name, --amount or --unit")
			}
			return check(app.recipes.UpdateIngredient(cmd.Context(), id, fields))
		}),
	}
	edit.Flags().StringVar(&changes.name, "name", "", "new name")
	edit.Flags().StringVar(&changes.amount, "amount", "", "new amount")
	edit.Flags().StringVar(&changes.unit, "unit", "", "new unit")

	cmd.AddCommand(
		add,
		edit,
		&cobra.Command{
			Use:   "rm <recipe> <ingredient>",
			Short: "Delete an ingredient",
			Args:  cobra.ExactArgs(2),
			RunE: withRecipe(func(cmd *cobra.Command, recipe models.Recipe, args []string) error {
				id, err := resolve(recipe.Expand.Ingredients, args[0], ingredientID)
				if err != nil {
					return err
				}
				return check(app.recipes.DeleteIngredient(cmd.Context(), id))
			}),
		},
	)
	return cmd
}
