package lists_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

func loadedRecipes(t *testing.T, records ...models.Recipe) (*lists.Recipes, *fakeRemote[models.Recipe], *fakeRemote[models.Ingredient]) {
	t.Helper()

	remote := &fakeRemote[models.Recipe]{records: records}
	ingredients := &fakeRemote[models.Ingredient]{}
	recipes := lists.NewRecipes(remote, ingredients, signedIn("u1"))
	if result := recipes.Fetch(context.Background()); !result.Success {
		t.Fatalf("fetching recipes: %s", result.Error)
	}
	remote.mu.Lock()
	remote.calls = nil
	remote.mu.Unlock()
	return recipes, remote, ingredients
}

func TestRecipes_FetchQuery(t *testing.T) {
	_, remote, _ := loadedRecipes(t)

	want := collection.ListOptions{
		Filter:  `(owner = "u1" || shared = true)`,
		Sort:    "-created",
		PerPage: lists.PageSize,
		Expand:  "ingredients",
	}
	if diff := cmp.Diff([]collection.ListOptions{want}, remote.options); diff != "" {
		t.Errorf("list options mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipes_Create(t *testing.T) {
	recipes, remote, _ := loadedRecipes(t, models.Recipe{ID: "old"})
	remote.onCreate = func(any) (models.Recipe, error) {
		return models.Recipe{ID: "new"}, nil
	}

	if result := recipes.Create(context.Background(), lists.RecipeInput{Title: "Pancakes"}); !result.Success {
		t.Fatalf("Create() = %+v", result)
	}
	want := lists.RecipeInput{Title: "Pancakes", Owner: "u1", ExtraImages: []string{}}
	if diff := cmp.Diff([]any{want}, remote.Created()); diff != "" {
		t.Errorf("created fields mismatch (-want +got):\n%s", diff)
	}
	if got := recipes.Items()[0].ID; got != "new" {
		t.Errorf("first recipe = %q, want new", got)
	}
}

func TestRecipes_ToggleFavoriteUsesServerRecord(t *testing.T) {
	ingredients := []models.Ingredient{{ID: "g1", Name: "Flour"}}
	recipes, remote, _ := loadedRecipes(t, models.Recipe{
		ID: "r1", Title: "Pancakes", Expand: models.RecipeExpand{Ingredients: ingredients},
	})
	remote.onUpdate = func(id string, _ any) (models.Recipe, error) {
		return models.Recipe{ID: id, Title: "Pancakes (edited elsewhere)", IsFavorite: true}, nil
	}

	result := recipes.ToggleFavorite(context.Background(), "r1")

	if !result.Success {
		t.Fatalf("ToggleFavorite() = %+v", result)
	}
	if diff := cmp.Diff([]map[string]any{{"is_favorite": true}}, remote.updated); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
	got := recipes.Items()[0]
	if got.Title != "Pancakes (edited elsewhere)" || !got.IsFavorite {
		t.Errorf("recipe = %+v, want server record", got)
	}
	if diff := cmp.Diff(ingredients, got.Expand.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipes_ToggleFavoriteFailureLeavesEntry(t *testing.T) {
	recipes, remote, _ := loadedRecipes(t, models.Recipe{ID: "r1", IsFavorite: true})
	remote.onUpdate = func(string, any) (models.Recipe, error) {
		return models.Recipe{}, &collection.Error{Status: 404}
	}

	result := recipes.ToggleFavorite(context.Background(), "r1")

	if result.Success || result.Error != lists.MessageNotFound {
		t.Errorf("ToggleFavorite() = %+v", result)
	}
	if !recipes.Items()[0].IsFavorite {
		t.Error("IsFavorite changed after a failed update")
	}
}

func TestRecipes_IngredientChangesRefetch(t *testing.T) {
	recipes, remote, ingredients := loadedRecipes(t, models.Recipe{ID: "r1"})
	ctx := context.Background()

	results := []lists.Result{
		recipes.CreateIngredient(ctx, "r1", lists.IngredientInput{Name: "Milk"}),
		recipes.UpdateIngredient(ctx, "g1", map[string]any{"amount": "200"}),
		recipes.DeleteIngredient(ctx, "g1"),
		recipes.CreateIngredients(ctx, "r1", []lists.IngredientInput{{Name: "Eggs"}, {Name: "Sugar"}}),
	}

	for i, result := range results {
		if !result.Success {
			t.Errorf("result %d = %+v", i, result)
		}
	}
	created := ingredients.Created()
	if len(created) != 3 {
		t.Fatalf("created %d ingredients, want 3", len(created))
	}
	for _, fields := range created {
		if input := fields.(lists.IngredientInput); input.Recipe != "r1" {
			t.Errorf("ingredient %q recipe = %q, want r1", input.Name, input.Recipe)
		}
	}
	if diff := cmp.Diff([]string{"list", "list", "list", "list"}, remote.Calls()); diff != "" {
		t.Errorf("recipe calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipes_Restore(t *testing.T) {
	recipes, remote, ingredients := loadedRecipes(t)
	remote.onCreate = func(any) (models.Recipe, error) {
		return models.Recipe{ID: "copy"}, nil
	}

	result := recipes.Restore(context.Background(), models.Recipe{
		ID:          "r1",
		Title:       "Soup",
		ExtraImages: []string{"a.jpg"},
		Expand:      models.RecipeExpand{Ingredients: []models.Ingredient{{ID: "g1", Recipe: "r1", Name: "Leek", Amount: "1"}}},
	})

	if !result.Success {
		t.Fatalf("Restore() = %+v", result)
	}
	want := []any{lists.IngredientInput{Recipe: "copy", Name: "Leek", Amount: "1"}}
	if diff := cmp.Diff(want, ingredients.Created()); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}
	if input := remote.Created()[0].(lists.RecipeInput); input.Owner != "u1" || input.Title != "Soup" {
		t.Errorf("restored recipe = %+v", input)
	}
}
