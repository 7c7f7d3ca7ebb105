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

var SubtaskColumns = filter.Columns{
	"id":      "id",
	"task":    "task",
	"title":   "title",
	"done":    "done",
	"created": "created_at",
	"updated": "updated_at",
}

type SubtaskRepository interface {
	Table[models.Subtask]
	FindByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]models.Subtask, error)
}

type SQLiteSubtaskRepository struct {
	database *sql.DB
}

func NewSubtaskRepository(database *sql.DB) *SQLiteSubtaskRepository {
	return &SQLiteSubtaskRepository{database: database}
}

const subtaskColumns = "id, task, title, done, created_at, updated_at"

func scanSubtask(row interface{ Scan(...any) error }) (models.Subtask, error) {
	var subtask models.Subtask
	err := row.Scan(&subtask.ID, &subtask.Task, &subtask.Title, &subtask.Done,
		timestamp{&subtask.Created}, timestamp{&subtask.Updated})
	return subtask, err
}

func (repository *SQLiteSubtaskRepository) FindByID(ctx context.Context, id string) (models.Subtask, error) {
	subtask, err := scanSubtask(repository.database.QueryRowContext(ctx,
		"SELECT "+subtaskColumns+" FROM subtasks WHERE id = ?", id,
	))
	if err != nil {
		return models.Subtask{}, fmt.Errorf("finding subtask by id: %w", err)
	}
	return subtask, nil
}

func (repository *SQLiteSubtaskRepository) FindAll(ctx context.Context, query ListQuery) ([]models.Subtask, error) {
	statement, args, err := buildSelect("SELECT "+subtaskColumns+" FROM subtasks", SubtaskColumns, query, "created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("finding subtasks: %w", err)
	}
	return repository.query(ctx, statement, args...)
}

// FindByTaskIDs groups subtasks by parent task, oldest first.
func (repository *SQLiteSubtaskRepository) FindByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]models.Subtask, error) {
	grouped := make(map[string][]models.Subtask, len(taskIDs))
	if len(taskIDs) == 0 {
		return grouped, nil
	}
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}
	subtasks, err := repository.query(ctx,
		"SELECT "+subtaskColumns+" FROM subtasks WHERE task IN ("+placeholders(len(taskIDs))+") ORDER BY created_at ASC, rowid ASC",
		args...,
	)
	if err != nil {
		return nil, err
	}
	for _, subtask := range subtasks {
		grouped[subtask.Task] = append(grouped[subtask.Task], subtask)
	}
	return grouped, nil
}

func (repository *SQLiteSubtaskRepository) query(ctx context.Context, statement string, args ...any) ([]models.Subtask, error) {
	rows, err := repository.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("finding subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []models.Subtask{}
	for rows.Next() {
		subtask, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subtask: %w", err)
		}
		subtasks = append(subtasks, subtask)
	}
	return subtasks, rows.Err()
}

func (repository *SQLiteSubtaskRepository) Count(ctx context.Context, where filter.Expr) (int, error) {
	return countWhere(ctx, repository.database, "subtasks", SubtaskColumns, where)
}

func (repository *SQLiteSubtaskRepository) Create(ctx context.Context, subtask models.Subtask) (models.Subtask, error) {
	if subtask.ID == "" {
		subtask.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	subtask.Created = now
	subtask.Updated = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO subtasks ("+subtaskColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		subtask.ID, subtask.Task, subtask.Title, subtask.Done,
		formatTimestamp(subtask.Created), formatTimestamp(subtask.Updated),
	)
	if err != nil {
		return models.Subtask{}, fmt.Errorf("creating subtask: %w", err)
	}
	return subtask, nil
}

func (repository *SQLiteSubtaskRepository) Update(ctx context.Context, subtask models.Subtask) (models.Subtask, error) {
	subtask.Updated = time.Now().UTC()
	result, err := repository.database.ExecContext(ctx,
		"UPDATE subtasks SET task = ?, title = ?, done = ?, updated_at = ? WHERE id = ?",
		subtask.Task, subtask.Title, subtask.Done, formatTimestamp(subtask.Updated), subtask.ID,
	)
	if err != nil {
		return models.Subtask{}, fmt.Errorf("updating subtask: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.Subtask{}, fmt.Errorf("updating subtask: %w", sql.ErrNoRows)
	}
	return subtask, nil
}

func (repository *SQLiteSubtaskRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, repository.database, "subtasks", id); err != nil {
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return nil
}
