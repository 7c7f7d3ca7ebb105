package repository_test

import (
	"context"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
)

func TestShoppingItemRepository_SourceRecipe(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	items := repository.NewShoppingItemRepository(db)
	recipes := repository.NewRecipeRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	recipe, err := recipes.Create(ctx, models.Recipe{Title: "Pancakes", Owner: owner.ID})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	loose, err := items.Create(ctx, models.ShoppingItem{Name: "Milk", Status: models.StatusOpen, Owner: owner.ID, Category: "dairy"})
	if err != nil {
		t.Fatalf("creating item without recipe: %v", err)
	}
	linked, err := items.Create(ctx, models.ShoppingItem{Name: "Flour", Status: models.StatusOpen, Owner: owner.ID, SourceRecipe: recipe.ID})
	if err != nil {
		t.Fatalf("creating item with recipe: %v", err)
	}

	found, _ := items.FindByID(ctx, loose.ID)
	if found.SourceRecipe != "" {
		t.Errorf("expected empty source recipe, got %s", found.SourceRecipe)
	}
	if found.Category != "dairy" {
		t.Errorf("expected category dairy, got %s", found.Category)
	}

	if err := recipes.Delete(ctx, recipe.ID); err != nil {
		t.Fatalf("deleting recipe: %v", err)
	}
	found, err = items.FindByID(ctx, linked.ID)
	if err != nil {
		t.Fatalf("finding linked item after recipe delete: %v", err)
	}
	if found.SourceRecipe != "" {
		t.Errorf("expected source recipe to be cleared, got %s", found.SourceRecipe)
	}
}

func TestShoppingItemRepository_CountDone(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewShoppingItemRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "anna@example.com")

	repo.Create(ctx, models.ShoppingItem{Name: "Milk", Status: models.StatusDone, Owner: owner.ID})
	repo.Create(ctx, models.ShoppingItem{Name: "Bread", Status: models.StatusOpen, Owner: owner.ID})
	repo.Create(ctx, models.ShoppingItem{Name: "Eggs", Status: models.StatusDone, Owner: owner.ID})

	count, err := repo.Count(ctx, filter.Eq("status", string(models.StatusDone)))
	if err != nil {
		t.Fatalf("counting items: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 done items, got %d", count)
	}
}
