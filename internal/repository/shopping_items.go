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

var ShoppingItemColumns = filter.Columns{
	"id":            "id",
	"name":          "name",
	"status":        "status",
	"shared":        "shared",
	"owner":         "owner",
	"category":      "category",
	"source_recipe": "source_recipe",
	"created":       "created_at",
	"updated":       "updated_at",
}

type ShoppingItemRepository interface {
	Table[models.ShoppingItem]
}

type SQLiteShoppingItemRepository struct {
	database *sql.DB
}

func NewShoppingItemRepository(database *sql.DB) *SQLiteShoppingItemRepository {
	return &SQLiteShoppingItemRepository{database: database}
}

const shoppingItemColumns = "id, name, amount, status, shared, owner, category, source_recipe, created_at, updated_at"

func scanShoppingItem(row interface{ Scan(...any) error }) (models.ShoppingItem, error) {
	var item models.ShoppingItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Amount, &item.Status, &item.Shared, &item.Owner,
		&item.Category, optionalString{&item.SourceRecipe},
		timestamp{&item.Created}, timestamp{&item.Updated},
	)
	return item, err
}

func (repository *SQLiteShoppingItemRepository) FindByID(ctx context.Context, id string) (models.ShoppingItem, error) {
	item, err := scanShoppingItem(repository.database.QueryRowContext(ctx,
		"SELECT "+shoppingItemColumns+" FROM shopping_items WHERE id = ?", id,
	))
	if err != nil {
		return models.ShoppingItem{}, fmt.Errorf("finding shopping item by id: %w", err)
	}
	return item, nil
}

func (repository *SQLiteShoppingItemRepository) FindAll(ctx context.Context, query ListQuery) ([]models.ShoppingItem, error) {
	statement, args, err := buildSelect("SELECT "+shoppingItemColumns+" FROM shopping_items", ShoppingItemColumns, query, "created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("finding shopping items: %w", err)
	}
	rows, err := repository.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("finding shopping items: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingItem{}
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shopping item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repository *SQLiteShoppingItemRepository) Count(ctx context.Context, where filter.Expr) (int, error) {
	return countWhere(ctx, repository.database, "shopping_items", ShoppingItemColumns, where)
}

func (repository *SQLiteShoppingItemRepository) Create(ctx context.Context, item models.ShoppingItem) (models.ShoppingItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	item.Created = now
	item.Updated = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO shopping_items ("+shoppingItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.Name, item.Amount, item.Status, item.Shared, item.Owner,
		item.Category, nullableString(item.SourceRecipe),
		formatTimestamp(item.Created), formatTimestamp(item.Updated),
	)
	if err != nil {
		return models.ShoppingItem{}, fmt.Errorf("creating shopping item: %w", err)
	}
	return item, nil
}

func (repository *SQLiteShoppingItemRepository) Update(ctx context.Context, item models.ShoppingItem) (models.ShoppingItem, error) {
	item.Updated = time.Now().UTC()
	result, err := repository.database.ExecContext(ctx,
		`UPDATE shopping_items SET name = ?, amount = ?, status = ?, shared = ?, owner = ?, category = ?,
			source_recipe = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Amount, item.Status, item.Shared, item.Owner, item.Category,
		nullableString(item.SourceRecipe), formatTimestamp(item.Updated), item.ID,
	)
	if err != nil {
		return models.ShoppingItem{}, fmt.Errorf("updating shopping item: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ShoppingItem{}, fmt.Errorf("updating shopping item: %w", sql.ErrNoRows)
	}
	return item, nil
}

func (repository *SQLiteShoppingItemRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, repository.database, "shopping_items", id); err != nil {
		return fmt.Errorf("deleting shopping item: %w", err)
	}
	return nil
}
