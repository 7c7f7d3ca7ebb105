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

// TaskColumns maps filterable task fields to their columns.
var TaskColumns = filter.Columns{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"shared":     "shared",
	"owner":      "owner",
	"due_date":   "due_date",
	"priority":   "priority",
	"tags":       "tags",
	"recurrence": "recurrence",
	"created":    "created_at",
	"updated":    "updated_at",
}

type TaskRepository interface {
	Table[models.Task]
}

type SQLiteTaskRepository struct {
	database *sql.DB
}

func NewTaskRepository(database *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{database: database}
}

const taskColumns = "id, title, description, status, shared, owner, due_date, priority, tags, recurrence, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Shared, &task.Owner,
		nullableTimestamp{&task.DueDate}, &task.Priority, &task.Tags, &task.Recurrence,
		timestamp{&task.Created}, timestamp{&task.Updated},
	)
	return task, err
}

func (repository *SQLiteTaskRepository) FindByID(ctx context.Context, id string) (models.Task, error) {
	task, err := scanTask(repository.database.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id,
	))
	if err != nil {
		return models.Task{}, fmt.Errorf("finding task by id: %w", err)
	}
	return task, nil
}

func (repository *SQLiteTaskRepository) FindAll(ctx context.Context, query ListQuery) ([]models.Task, error) {
	statement, args, err := buildSelect("SELECT "+taskColumns+" FROM tasks", TaskColumns, query, "created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("finding tasks: %w", err)
	}
	rows, err := repository.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("finding tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (repository *SQLiteTaskRepository) Count(ctx context.Context, where filter.Expr) (int, error) {
	return countWhere(ctx, repository.database, "tasks", TaskColumns, where)
}

func (repository *SQLiteTaskRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.Created = now
	task.Updated = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.Title, task.Description, task.Status, task.Shared, task.Owner,
		formatNullableTimestamp(task.DueDate), task.Priority, task.Tags, task.Recurrence,
		formatTimestamp(task.Created), formatTimestamp(task.Updated),
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

func (repository *SQLiteTaskRepository) Update(ctx context.Context, task models.Task) (models.Task, error) {
	task.Updated = time.Now().UTC()
	result, err := repository.database.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, shared = ?, owner = ?, due_date = ?,
			priority = ?, tags = ?, recurrence = ?, updated_at = ? WHERE id = ?`,
		task.Title, task.Description, task.Status, task.Shared, task.Owner,
		formatNullableTimestamp(task.DueDate), task.Priority, task.Tags, task.Recurrence,
		formatTimestamp(task.Updated), task.ID,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("updating task: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.Task{}, fmt.Errorf("updating task: %w", sql.ErrNoRows)
	}
	return task, nil
}

func (repository *SQLiteTaskRepository) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, repository.database, "tasks", id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}
