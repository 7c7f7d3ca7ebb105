package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/google/uuid"
)

var RecipeColumns = filter.Columns{
	"id":          "id",
	"title":       "title",
	"tags":        "tags",
	"is_favorite": "is_favorite",
	"shared":      "shared",
	"owner":       "owner",
	"created":     "created_at",
	"updated":     "updated_at",
}

type RecipeRepository interface {
	Table[models.Recipe]
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, title, description, ingredients, steps, tags, is_favorite, shared, owner,
	main_image, extra_images, created_at, updated_at`

func scanRecipe(row interface{ Scan(...any) error }) (models.Recipe, error) {
	var recipe models.Recipe
	var extraImagesJSON string
	if err := row.Scan(
		&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients, &recipe.Steps,
		&recipe.Tags, &recipe.IsFavorite, &recipe.Shared, &recipe.Owner,
		&recipe.MainImage, &extraImagesJSON, timestamp{&recipe.Created}, timestamp{&recipe.Updated},
	); err != nil {
		return models.Recipe{}, err
	}
	if err := json.Unmarshal([]byte(extraImagesJSON), &recipe.ExtraImages); err != nil {
		return models.Recipe{}, fmt.Errorf("unmarshalling extra images: %w", err)
	}
	return recipe, nil
}

func marshalExtraImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("marshalling extra images: %w", err)
	}
	return string(data), nil
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	recipe, err := scanRecipe(repository.database.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id,
	))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) FindAll(ctx context.Context, query ListQuery) ([]models.Recipe, error) {
	statement, args, err := buildSelect("SELECT "+recipeColumns+" FROM recipes", RecipeColumns, query, "created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	rows, err := repository.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (repository *SQLiteRecipeRepository) Count(ctx context.Context, where filter.Expr) (int, error) {
	return countWhere(ctx, repository.database, "recipes", RecipeColumns, where)
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if recipe.ExtraImages == nil {
		recipe.ExtraImages = []string{}
	}
	now := time.Now().UTC()
	recipe.Created = now
	recipe.Updated = now

	extraImagesJSON, err := marshalExtraImages(recipe.ExtraImages)
	if err != nil {
		return models.Recipe{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients, recipe.Steps,
		recipe.Tags, recipe.IsFavorite, recipe.Shared, recipe.Owner,
		recipe.MainImage, extraImagesJSON, formatTimestamp(recipe.Created), formatTimestamp(recipe.Updated),
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ExtraImages == nil {
		recipe.ExtraImages = []string{}
	}
	recipe.Updated = time.Now().UTC()

	extraImagesJSON, err := marshalExtraImages(recipe.ExtraImages)
	if err != nil {
		return models.Recipe{}, err
	}

	result, err := repository.database.ExecContext(ctx,
		`UPDATE recipes SET title = ?, description = ?, ingredients = ?, steps = ?, tags = ?,
			is_favorite = ?, shared = ?, owner = ?, main_image = ?, extra_images = ?, updated_at = ?
		WHERE id = ?`,
		recipe.Title, recipe.Description, recipe.Ingredients, recipe.Steps, recipe.Tags,
		recipe.IsFavorite, recipe.Shared, recipe.Owner, recipe.MainImage, extraImagesJSON,
		formatTimestamp(recipe.Updated), recipe.ID,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", sql.ErrNoRows)
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, repository.database, "recipes", id); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
