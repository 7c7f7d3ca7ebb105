package repository_test

import (
	"context"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestRecipeRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewRecipeRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	created, err := repo.Create(ctx, models.Recipe{
		Title:       "Lasagne",
		Ingredients: "pasta sheets\ntomatoes",
		Steps:       "Layer and bake.",
		Owner:       owner.ID,
		MainImage:   "lasagne.jpg",
		ExtraImages: []string{"a.jpg", "b.jpg"},
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding recipe: %v", err)
	}
	if diff := cmp.Diff([]string{"a.jpg", "b.jpg"}, found.ExtraImages); diff != "" {
		t.Errorf("extra images mismatch (-want +got):\n%s", diff)
	}
	if found.MainImage != "lasagne.jpg" {
		t.Errorf("expected main image lasagne.jpg, got %s", found.MainImage)
	}
}

func TestRecipeRepository_NilExtraImages(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewRecipeRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	created, _ := repo.Create(ctx, models.Recipe{Title: "Toast", Owner: owner.ID})

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding recipe: %v", err)
	}
	if found.ExtraImages == nil || len(found.ExtraImages) != 0 {
		t.Errorf("expected empty extra images, got %#v", found.ExtraImages)
	}
}

func TestRecipeRepository_UpdateFavorite(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewRecipeRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	recipe, _ := repo.Create(ctx, models.Recipe{Title: "Soup", Owner: owner.ID})
	recipe.IsFavorite = true
	if _, err := repo.Update(ctx, recipe); err != nil {
		t.Fatalf("updating recipe: %v", err)
	}

	found, _ := repo.FindByID(ctx, recipe.ID)
	if !found.IsFavorite {
		t.Error("expected recipe to be a favorite")
	}
}

func TestIngredientRepository_FindByRecipeIDs(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	recipes := repository.NewRecipeRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	recipe, _ := recipes.Create(ctx, models.Recipe{Title: "Pancakes", Owner: owner.ID})
	for _, name := range []string{"Flour", "Milk", "Eggs"} {
		if _, err := ingredients.Create(ctx, models.Ingredient{Recipe: recipe.ID, Name: name}); err != nil {
			t.Fatalf("creating ingredient: %v", err)
		}
	}

	grouped, err := ingredients.FindByRecipeIDs(ctx, []string{recipe.ID, "unknown"})
	if err != nil {
		t.Fatalf("finding ingredients: %v", err)
	}
	var names []string
	for _, ingredient := range grouped[recipe.ID] {
		names = append(names, ingredient.Name)
	}
	if diff := cmp.Diff([]string{"Flour", "Milk", "Eggs"}, names); diff != "" {
		t.Errorf("ingredient order mismatch (-want +got):\n%s", diff)
	}
	if len(grouped["unknown"]) != 0 {
		t.Errorf("expected no ingredients for unknown recipe, got %d", len(grouped["unknown"]))
	}
}
