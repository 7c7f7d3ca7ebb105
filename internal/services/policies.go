package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
)

// ownedScope is the visibility rule of top level collections.
func ownedScope(user models.User) filter.Expr {
	return filter.Or(filter.Eq("owner", user.ID), filter.Eq("shared", true))
}

func authorizeOwned(user models.User, owner string, shared bool, action Action) error {
	visible := owner == user.ID || shared
	switch action {
	case ActionCreate:
		if owner != user.ID {
			return ErrForbidden
		}
	case ActionDelete:
		if !visible {
			return ErrNotFound
		}
		if owner != user.ID {
			return ErrForbidden
		}
	default:
		if !visible {
			return ErrNotFound
		}
	}
	return nil
}

// visibleTask returns the task with id when user can see it, nil otherwise.
func visibleTask(ctx context.Context, tasks repository.TaskRepository, user models.User, id string) (*models.Task, error) {
	task, err := tasks.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding task %s: %w", id, err)
	}
	if authorizeOwned(user, task.Owner, task.Shared, ActionView) != nil {
		return nil, nil
	}
	return &task, nil
}

// visibleRecipe returns the recipe with id when user can see it, nil otherwise.
func visibleRecipe(ctx context.Context, recipes repository.RecipeRepository, user models.User, id string) (*models.Recipe, error) {
	recipe, err := recipes.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding recipe %s: %w", id, err)
	}
	if authorizeOwned(user, recipe.Owner, recipe.Shared, ActionView) != nil {
		return nil, nil
	}
	return &recipe, nil
}

// fillOwner sets the owner on create and pins it afterwards.
func fillOwner(owner *string, original string, user models.User, action Action) {
	if action == ActionCreate {
		if *owner == "" {
			*owner = user.ID
		}
		return
	}
	*owner = original
}

func required(validationError *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		validationError.Add(field, CodeRequired, "Cannot be blank.")
	}
}

type TaskPolicy struct {
	subtasks repository.SubtaskRepository
}

func NewTaskPolicy(subtasks repository.SubtaskRepository) *TaskPolicy {
	return &TaskPolicy{subtasks: subtasks}
}

func (policy *TaskPolicy) Scope(user models.User) filter.Expr {
	return ownedScope(user)
}

func (policy *TaskPolicy) Authorize(_ context.Context, user models.User, task models.Task, action Action) error {
	return authorizeOwned(user, task.Owner, task.Shared, action)
}

func (policy *TaskPolicy) Prepare(task *models.Task, original models.Task, user models.User, action Action) {
	task.ID = original.ID
	task.Created = original.Created
	task.Updated = original.Updated
	task.Expand = models.TaskExpand{}
	fillOwner(&task.Owner, original.Owner, user, action)
	task.Title = strings.TrimSpace(task.Title)
	if task.Status == "" {
		task.Status = models.StatusOpen
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}
}

func (policy *TaskPolicy) Validate(_ context.Context, _ models.User, task, _ models.Task) error {
	validationError := newValidationError()
	required(validationError, "title", task.Title)
	if !task.Status.Valid() {
		validationError.Add("status", CodeInvalidValue, "Invalid value "+string(task.Status)+".")
	}
	if !task.Priority.Valid() {
		validationError.Add("priority", CodeInvalidValue, "Invalid value "+string(task.Priority)+".")
	}
	if !task.Recurrence.Valid() {
		validationError.Add("recurrence", CodeInvalidValue, "Invalid value "+string(task.Recurrence)+".")
	}
	return validationError.OrNil()
}

func (policy *TaskPolicy) Expand(ctx context.Context, _ models.User, tasks []models.Task, field string) error {
	if field != "subtasks" {
		return nil
	}
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	grouped, err := policy.subtasks.FindByTaskIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("expanding subtasks: %w", err)
	}
	for i := range tasks {
		tasks[i].Expand.Subtasks = grouped[tasks[i].ID]
	}
	return nil
}

type SubtaskPolicy struct {
	tasks repository.TaskRepository
}

func NewSubtaskPolicy(tasks repository.TaskRepository) *SubtaskPolicy {
	return &SubtaskPolicy{tasks: tasks}
}

func (policy *SubtaskPolicy) Scope(user models.User) filter.Expr {
	return filter.Within("task", "tasks", repository.TaskColumns, ownedScope(user))
}

// Authorize grants every action on a subtask to whoever can see its task.
func (policy *SubtaskPolicy) Authorize(ctx context.Context, user models.User, subtask models.Subtask, _ Action) error {
	task, err := visibleTask(ctx, policy.tasks, user, subtask.Task)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	return nil
}

func (policy *SubtaskPolicy) Prepare(subtask *models.Subtask, original models.Subtask, _ models.User, _ Action) {
	subtask.ID = original.ID
	subtask.Created = original.Created
	subtask.Updated = original.Updated
	subtask.Title = strings.TrimSpace(subtask.Title)
}

// Validate only checks that the task exists; Authorize answers not found for
// tasks user cannot see.
func (policy *SubtaskPolicy) Validate(ctx context.Context, _ models.User, subtask, _ models.Subtask) error {
	validationError := newValidationError()
	required(validationError, "task", subtask.Task)
	if subtask.Task != "" {
		if _, err := policy.tasks.FindByID(ctx, subtask.Task); errors.Is(err, sql.ErrNoRows) {
			validationError.Add("task", CodeMissingRelation, "Failed to find the related task.")
		} else if err != nil {
			return fmt.Errorf("finding parent task: %w", err)
		}
	}
	required(validationError, "title", subtask.Title)
	return validationError.OrNil()
}

func (policy *SubtaskPolicy) Expand(context.Context, models.User, []models.Subtask, string) error {
	return nil
}

type ShoppingItemPolicy struct {
	recipes repository.RecipeRepository
}

func NewShoppingItemPolicy(recipes repository.RecipeRepository) *ShoppingItemPolicy {
	return &ShoppingItemPolicy{recipes: recipes}
}

func (policy *ShoppingItemPolicy) Scope(user models.User) filter.Expr {
	return ownedScope(user)
}

func (policy *ShoppingItemPolicy) Authorize(_ context.Context, user models.User, item models.ShoppingItem, action Action) error {
	return authorizeOwned(user, item.Owner, item.Shared, action)
}

func (policy *ShoppingItemPolicy) Prepare(item *models.ShoppingItem, original models.ShoppingItem, user models.User, action Action) {
	item.ID = original.ID
	item.Created = original.Created
	item.Updated = original.Updated
	item.Expand = models.ShoppingItemExpand{}
	fillOwner(&item.Owner, original.Owner, user, action)
	item.Name = strings.TrimSpace(item.Name)
	if item.Status == "" {
		item.Status = models.StatusOpen
	}
}

// Validate treats a newly linked source recipe user cannot see like a missing
// one. An unchanged link is left alone so members can still tick off shared
// items linked to the owner's private recipe.
func (policy *ShoppingItemPolicy) Validate(ctx context.Context, user models.User, item, original models.ShoppingItem) error {
	validationError := newValidationError()
	required(validationError, "name", item.Name)
	if !item.Status.Valid() {
		validationError.Add("status", CodeInvalidValue, "Invalid value "+string(item.Status)+".")
	}
	if item.SourceRecipe != "" && item.SourceRecipe != original.SourceRecipe {
		recipe, err := visibleRecipe(ctx, policy.recipes, user, item.SourceRecipe)
		if err != nil {
			return err
		}
		if recipe == nil {
			validationError.Add("source_recipe", CodeMissingRelation, "Failed to find the related recipe.")
		}
	}
	return validationError.OrNil()
}

// Expand resolves source_recipe per item. Items shared by someone else may
// point at a recipe the viewer cannot see; those stay unexpanded.
func (policy *ShoppingItemPolicy) Expand(ctx context.Context, user models.User, items []models.ShoppingItem, field string) error {
	if field != "source_recipe" {
		return nil
	}
	recipes := make(map[string]*models.Recipe)
	for i := range items {
		id := items[i].SourceRecipe
		if id == "" {
			continue
		}
		recipe, cached := recipes[id]
		if !cached {
			found, err := visibleRecipe(ctx, policy.recipes, user, id)
			if err != nil {
				return fmt.Errorf("expanding source recipe: %w", err)
			}
			recipe = found
			recipes[id] = recipe
		}
		items[i].Expand.SourceRecipe = recipe
	}
	return nil
}

type RecipePolicy struct {
	ingredients repository.IngredientRepository
}

func NewRecipePolicy(ingredients repository.IngredientRepository) *RecipePolicy {
	return &RecipePolicy{ingredients: ingredients}
}

func (policy *RecipePolicy) Scope(user models.User) filter.Expr {
	return ownedScope(user)
}

func (policy *RecipePolicy) Authorize(_ context.Context, user models.User, recipe models.Recipe, action Action) error {
	return authorizeOwned(user, recipe.Owner, recipe.Shared, action)
}

func (policy *RecipePolicy) Prepare(recipe *models.Recipe, original models.Recipe, user models.User, action Action) {
	recipe.ID = original.ID
	recipe.Created = original.Created
	recipe.Updated = original.Updated
	recipe.Expand = models.RecipeExpand{}
	fillOwner(&recipe.Owner, original.Owner, user, action)
	recipe.Title = strings.TrimSpace(recipe.Title)
}

func (policy *RecipePolicy) Validate(_ context.Context, _ models.User, recipe, _ models.Recipe) error {
	validationError := newValidationError()
	required(validationError, "title", recipe.Title)
	if len(recipe.ExtraImages) > models.MaxExtraImages {
		validationError.Add("extra_images", CodeTooMany, fmt.Sprintf("Select no more than %d.", models.MaxExtraImages))
	}
	return validationError.OrNil()
}

func (policy *RecipePolicy) Expand(ctx context.Context, _ models.User, recipes []models.Recipe, field string) error {
	if field != "ingredients" {
		return nil
	}
	ids := make([]string, len(recipes))
	for i, recipe := range recipes {
		ids[i] = recipe.ID
	}
	grouped, err := policy.ingredients.FindByRecipeIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("expanding ingredients: %w", err)
	}
	for i := range recipes {
		recipes[i].Expand.Ingredients = grouped[recipes[i].ID]
	}
	return nil
}

type IngredientPolicy struct {
	recipes repository.RecipeRepository
}

func NewIngredientPolicy(recipes repository.RecipeRepository) *IngredientPolicy {
	return &IngredientPolicy{recipes: recipes}
}

func (policy *IngredientPolicy) Scope(user models.User) filter.Expr {
	return filter.Within("recipe", "recipes", repository.RecipeColumns, ownedScope(user))
}

func (policy *IngredientPolicy) Authorize(ctx context.Context, user models.User, ingredient models.Ingredient, _ Action) error {
	recipe, err := visibleRecipe(ctx, policy.recipes, user, ingredient.Recipe)
	if err != nil {
		return err
	}
	if recipe == nil {
		return ErrNotFound
	}
	return nil
}

func (policy *IngredientPolicy) Prepare(ingredient *models.Ingredient, original models.Ingredient, _ models.User, _ Action) {
	ingredient.ID = original.ID
	ingredient.Created = original.Created
	ingredient.Updated = original.Updated
	ingredient.Name = strings.TrimSpace(ingredient.Name)
}

func (policy *IngredientPolicy) Validate(ctx context.Context, _ models.User, ingredient, _ models.Ingredient) error {
	validationError := newValidationError()
	required(validationError, "recipe", ingredient.Recipe)
	if ingredient.Recipe != "" {
		if _, err := policy.recipes.FindByID(ctx, ingredient.Recipe); errors.Is(err, sql.ErrNoRows) {
			validationError.Add("recipe", CodeMissingRelation, "Failed to find the related recipe.")
		} else if err != nil {
			return fmt.Errorf("finding parent recipe: %w", err)
		}
	}
	required(validationError, "name", ingredient.Name)
	return validationError.OrNil()
}

func (policy *IngredientPolicy) Expand(context.Context, models.User, []models.Ingredient, string) error {
	return nil
}
