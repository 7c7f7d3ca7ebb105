package lists

import (
	"context"
	"log/slog"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

type ShoppingInput struct {
	Name         string        `json:"name"`
	Amount       string        `json:"amount"`
	Status       models.Status `json:"status"`
	Shared       bool          `json:"shared"`
	Owner        string        `json:"owner"`
	Category     string        `json:"category"`
	SourceRecipe string        `json:"source_recipe,omitempty"`
}

// Shopping is the local shopping list of the signed-in user.
type Shopping struct {
	*store[models.ShoppingItem]
}

func NewShopping(items Remote[models.ShoppingItem], identity IdentitySource) *Shopping {
	return &Shopping{
		store: newStore(models.CollectionShoppingItems, items, identity, "-status,-created", "source_recipe", func(item models.ShoppingItem) string { return item.ID }),
	}
}

// Create adds an open item owned by the current user, categorized by name.
func (shopping *Shopping) Create(ctx context.Context, input ShoppingInput) Result {
	input.Status = models.StatusOpen
	return shopping.insert(ctx, input)
}

func (shopping *Shopping) insert(ctx context.Context, input ShoppingInput) Result {
	user, ok := shopping.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	input.Owner = user.ID
	input.Category = Categorize(input.Name)
	_, result := shopping.create(ctx, input)
	return result
}

// Toggle flips the status of an item before telling the server and reverts
// it when the update fails.
func (shopping *Shopping) Toggle(ctx context.Context, id string) Result {
	item, ok := shopping.find(id)
	if !ok {
		return failure(MessageMissingEntry)
	}
	previous := item.Status
	next := previous.Toggled()

	return shopping.optimistic(ctx,
		func() { shopping.modify(id, func(item *models.ShoppingItem) { item.Status = next }) },
		func() { shopping.modify(id, func(item *models.ShoppingItem) { item.Status = previous }) },
		func(ctx context.Context) error {
			_, err := shopping.remote.Update(ctx, id, map[string]any{"status": next})
			return err
		},
	)
}

// Update changes the given fields of an item and fetches the list again. The
// category set at creation is kept, even on rename.
func (shopping *Shopping) Update(ctx context.Context, id string, fields map[string]any) Result {
	return shopping.update(ctx, id, fields)
}

// ClearDone deletes every done item. The items disappear at once; if any
// delete fails the list is fetched again to show what is left.
func (shopping *Shopping) ClearDone(ctx context.Context) Result {
	done, _ := shopping.removeWhere(func(item models.ShoppingItem) bool {
		return item.Status == models.StatusDone
	})
	if len(done) == 0 {
		return failure(MessageNothingToClear)
	}

	err := fanOut(ctx, done, func(ctx context.Context, item models.ShoppingItem) error {
		return shopping.remote.Delete(ctx, item.ID)
	})
	if err != nil {
		slog.Error("clearing done items", "count", len(done), "error", err)
		shopping.refetch(ctx)
		return failed(err)
	}
	return succeeded()
}

// Restore creates a copy of a deleted item with its status.
func (shopping *Shopping) Restore(ctx context.Context, item models.ShoppingItem) Result {
	return shopping.insert(ctx, ShoppingInput{
		Name:         item.Name,
		Amount:       item.Amount,
		Status:       item.Status,
		Shared:       item.Shared,
		SourceRecipe: item.SourceRecipe,
	})
}

// AddRecipe puts the expanded ingredients of recipe on the list, linked to
// the recipe, and fetches the list again.
func (shopping *Shopping) AddRecipe(ctx context.Context, recipe models.Recipe) Result {
	user, ok := shopping.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	ingredients := recipe.Expand.Ingredients
	if len(ingredients) == 0 {
		return failure(MessageNothingToAdd)
	}

	err := fanOut(ctx, ingredients, func(ctx context.Context, ingredient models.Ingredient) error {
		_, err := shopping.remote.Create(ctx, ShoppingInput{
			Name:         ingredient.Name,
			Amount:       strings.TrimSpace(ingredient.Amount + " " + ingredient.Unit),
			Status:       models.StatusOpen,
			Shared:       recipe.Shared,
			Owner:        user.ID,
			Category:     Categorize(ingredient.Name),
			SourceRecipe: recipe.ID,
		})
		return err
	})
	shopping.refetch(ctx)
	if err != nil {
		slog.Error("adding recipe to shopping list", "recipe", recipe.ID, "error", err)
		return failed(err)
	}
	return succeeded()
}
