package lists

import (
	"context"
	"log/slog"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

type RecipeInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients string   `json:"ingredients"`
	Steps       string   `json:"steps"`
	Tags        string   `json:"tags"`
	IsFavorite  bool     `json:"is_favorite"`
	Shared      bool     `json:"shared"`
	Owner       string   `json:"owner"`
	MainImage   string   `json:"main_image"`
	ExtraImages []string `json:"extra_images"`
}

type IngredientInput struct {
	Recipe string `json:"recipe"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipes is the local recipe list of the signed-in user.
type Recipes struct {
	*store[models.Recipe]
	ingredients Remote[models.Ingredient]
}

func NewRecipes(recipes Remote[models.Recipe], ingredients Remote[models.Ingredient], identity IdentitySource) *Recipes {
	return &Recipes{
		store:       newStore(models.CollectionRecipes, recipes, identity, "-created", "ingredients", func(recipe models.Recipe) string { return recipe.ID }),
		ingredients: ingredients,
	}
}

// Create stores a recipe owned by the current user and prepends it.
func (recipes *Recipes) Create(ctx context.Context, input RecipeInput) Result {
	user, ok := recipes.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	input.Owner = user.ID
	if input.ExtraImages == nil {
		input.ExtraImages = []string{}
	}
	_, result := recipes.create(ctx, input)
	return result
}

func (recipes *Recipes) Update(ctx context.Context, id string, fields map[string]any) Result {
	return recipes.update(ctx, id, fields)
}

// ToggleFavorite inverts the favorite flag and replaces the entry with the
// record the server returns.
func (recipes *Recipes) ToggleFavorite(ctx context.Context, id string) Result {
	recipe, ok := recipes.find(id)
	if !ok {
		return failure(MessageMissingEntry)
	}

	updated, err := recipes.remote.Update(ctx, id, map[string]any{"is_favorite": !recipe.IsFavorite})
	if err != nil {
		slog.Error("toggling favorite", "recipe", id, "error", err)
		return failed(err)
	}
	recipes.modify(id, func(recipe *models.Recipe) {
		expand := recipe.Expand
		*recipe = updated
		if len(recipe.Expand.Ingredients) == 0 {
			recipe.Expand = expand
		}
	})
	return succeeded()
}

// Restore creates a copy of a deleted recipe together with its ingredients.
func (recipes *Recipes) Restore(ctx context.Context, recipe models.Recipe) Result {
	user, ok := recipes.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	created, err := recipes.remote.Create(ctx, RecipeInput{
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Steps:       recipe.Steps,
		Tags:        recipe.Tags,
		IsFavorite:  recipe.IsFavorite,
		Shared:      recipe.Shared,
		Owner:       user.ID,
		MainImage:   recipe.MainImage,
		ExtraImages: append([]string{}, recipe.ExtraImages...),
	})
	if err != nil {
		slog.Error("restoring recipe", "recipe", recipe.ID, "error", err)
		return failed(err)
	}

	inputs := make([]IngredientInput, len(recipe.Expand.Ingredients))
	for i, ingredient := range recipe.Expand.Ingredients {
		inputs[i] = IngredientInput{Name: ingredient.Name, Amount: ingredient.Amount, Unit: ingredient.Unit}
	}
	return recipes.CreateIngredients(ctx, created.ID, inputs)
}

func (recipes *Recipes) CreateIngredient(ctx context.Context, recipeID string, input IngredientInput) Result {
	input.Recipe = recipeID
	if _, err := recipes.ingredients.Create(ctx, input); err != nil {
		slog.Error("creating ingredient", "recipe", recipeID, "error", err)
		return failed(err)
	}
	recipes.refetch(ctx)
	return succeeded()
}

// CreateIngredients adds several ingredients in parallel, then fetches the
// list again.
func (recipes *Recipes) CreateIngredients(ctx context.Context, recipeID string, inputs []IngredientInput) Result {
	err := fanOut(ctx, inputs, func(ctx context.Context, input IngredientInput) error {
		input.Recipe = recipeID
		_, err := recipes.ingredients.Create(ctx, input)
		return err
	})
	recipes.refetch(ctx)
	if err != nil {
		slog.Error("creating ingredients", "recipe", recipeID, "count", len(inputs), "error", err)
		return failed(err)
	}
	return succeeded()
}

func (recipes *Recipes) UpdateIngredient(ctx context.Context, id string, fields map[string]any) Result {
	if _, err := recipes.ingredients.Update(ctx, id, fields); err != nil {
		slog.Error("updating ingredient", "ingredient", id, "error", err)
		return failed(err)
	}
	recipes.refetch(ctx)
	return succeeded()
}

func (recipes *Recipes) DeleteIngredient(ctx context.Context, id string) Result {
	if err := recipes.ingredients.Delete(ctx, id); err != nil {
		slog.Error("deleting ingredient", "ingredient", id, "error", err)
		return failed(err)
	}
	recipes.refetch(ctx)
	return succeeded()
}
