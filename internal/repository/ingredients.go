package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/google/uuid"
)

var IngredientColumns = filter.Columns{
	"id":      "id",
	"recipe":  "recipe",
	"name":    "name",
	"unit":    "unit",
	"created": "created_at",
	"updated": "updated_at",
}

type IngredientRepository interface {
	Table[models.Ingredient]
	FindByRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]models.Ingredient, error)
}

type SQLiteIngredientRepository struct {
	database *sql.DB
}

func NewIngredientRepository(database *sql.DB) *SQLiteIngredientRepository {
	return &SQLiteIngredientRepository{database: database}
}

const ingredientColumns = "id, recipe, name, amount, unit, created_at, updated_at"

func scanIngredient(row interface{ Scan(...any) error }) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := row.Scan(&ingredient.ID, &ingredient.Recipe, &ingredient.Name, &ingredient.Amount,
		&ingredient.Unit, timestamp{&ingredient.Created}, timestamp{&ingredient.Updated})
	return ingredient, err
}

func (repository *SQLiteIngredientRepository) FindByID(ctx context.Context, id string) (models.Ingredient, error) {
	ingredient, err := scanIngredient(repository.database.QueryRowContext(ctx,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE id = ?", id,
	))
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("finding ingredient by id: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) FindAll(ctx context.Context, query ListQuery) ([]models.Ingredient, error) {
	statement, args, err := buildSelect("SELECT "+ingredientColumns+" FROM ingredients", IngredientColumns, query, "created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("finding ingredients: %w", err)
	}
	return repository.query(ctx, statement, args...)
}

// FindByRecipeIDs groups ingredients by recipe in insertion order.
func (repository *SQLiteIngredientRepository) FindByRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]models.Ingredient, error) {
	grouped := make(map[string][]models.Ingredient, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return grouped, nil
	}
	args := make([]any, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}
	ingredients, err := repository.query(ctx,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE recipe IN ("+placeholders(len(recipeIDs))+") ORDER BY created_at ASC, rowid ASC",
		args...,
	)
	if err != nil {
		return nil, err
	}
	for _, ingredient := range ingredients {
		grouped[ingredient.Recipe] = append(grouped[ingredient.Recipe], ingredient)
	}
	return grouped, nil
}

func (repository *SQLiteIngredientRepository) query(ctx context.Context, statement string, args ...any) ([]models.Ingredient, error) {
	rows, err := repository.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("finding ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteIngredientRepository) Count(ctx context.Context, where filter.Expr) (int, error) {
	return countWhere(ctx, repository.database, "ingredients", IngredientColumns, where)
}

func (repository *SQLiteIngredientRepository) Create(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	ingredient.Created = now
	ingredient.Updated = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO ingredients ("+ingredientColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		ingredient.ID, ingredient.Recipe, ingredient.Name, ingredient.Amount, ingredient.Unit,
		formatTimestamp(ingredient.Created), formatTimestamp(ingredient.Updated),
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("creating ingredient: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Update(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	ingredient.Updated = time.Now().UTC()
	result, err := repository.database.ExecContext(ctx,
		"UPDATE ingredients SET recipe = ?, name = ?, amount = ?, unit = ?, updated_at = ? WHERE id = ?",
		ingredient.Recipe, ingredient.Name, ingredient.Amount, ingredient.Unit,
		formatTimestamp(ingredient.Updated), ingredient.ID,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("updating ingredient: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.Ingredient{}, fmt.Errorf("updating ingredient: %w", sql.ErrNoRows)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, repository.database, "ingredients", id); err != nil {
		return fmt.Errorf("deleting ingredient: %w", err)
	}
	return nil
}
