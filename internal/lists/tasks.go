package lists

import (
	"context"
	"log/slog"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

// TaskInput holds the fields of a new task. Subtasks are created after the
// task itself.
type TaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.Status     `json:"status"`
	Shared      bool              `json:"shared"`
	Owner       string            `json:"owner"`
	DueDate     *time.Time        `json:"due_date"`
	Priority    models.Priority   `json:"priority"`
	Tags        string            `json:"tags"`
	Recurrence  models.Recurrence `json:"recurrence"`
	Subtasks    []string          `json:"-"`
}

type subtaskInput struct {
	Task  string `json:"task"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Tasks is the local task list of the signed-in user.
type Tasks struct {
	*store[models.Task]
	subtasks Remote[models.Subtask]
}

func NewTasks(tasks Remote[models.Task], subtasks Remote[models.Subtask], identity IdentitySource) *Tasks {
	return &Tasks{
		store:    newStore(models.CollectionTasks, tasks, identity, "-status,-created", "subtasks", func(task models.Task) string { return task.ID }),
		subtasks: subtasks,
	}
}

// Create stores a new open task owned by the current user. Without subtasks
// the record is prepended; otherwise the subtasks are created in parallel and
// the list is fetched again.
func (tasks *Tasks) Create(ctx context.Context, input TaskInput) Result {
	input.Status = models.StatusOpen
	return tasks.insert(ctx, input)
}

func (tasks *Tasks) insert(ctx context.Context, input TaskInput) Result {
	user, ok := tasks.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	input.Owner = user.ID
	if input.Recurrence == "" {
		input.Recurrence = models.RecurrenceNone
	}

	titles := input.Subtasks
	if len(titles) == 0 {
		_, result := tasks.create(ctx, input)
		return result
	}

	task, err := tasks.remote.Create(ctx, input)
	if err != nil {
		slog.Error("creating task", "error", err)
		return failed(err)
	}
	err = fanOut(ctx, titles, func(ctx context.Context, title string) error {
		_, err := tasks.subtasks.Create(ctx, subtaskInput{Task: task.ID, Title: title})
		return err
	})
	tasks.refetch(ctx)
	if err != nil {
		slog.Error("creating subtasks", "task", task.ID, "error", err)
		return failed(err)
	}
	return succeeded()
}

// Toggle flips the status of a task before telling the server and reverts it
// when the update fails. Completing a recurring task creates its successor.
func (tasks *Tasks) Toggle(ctx context.Context, id string) Result {
	task, ok := tasks.find(id)
	if !ok {
		return failure(MessageMissingEntry)
	}
	previous := task.Status
	next := previous.Toggled()

	result := tasks.optimistic(ctx,
		func() { tasks.modify(id, func(task *models.Task) { task.Status = next }) },
		func() { tasks.modify(id, func(task *models.Task) { task.Status = previous }) },
		func(ctx context.Context) error {
			_, err := tasks.remote.Update(ctx, id, map[string]any{"status": next})
			return err
		},
	)
	if !result.Success || next != models.StatusDone || !recurring(task.Recurrence) {
		return result
	}
	return tasks.spawnSuccessor(ctx, task)
}

func recurring(recurrence models.Recurrence) bool {
	return recurrence != "" && recurrence != models.RecurrenceNone
}

// spawnSuccessor creates the next occurrence of a completed recurring task.
// The completed task stays done when this fails.
func (tasks *Tasks) spawnSuccessor(ctx context.Context, task models.Task) Result {
	user, ok := tasks.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}
	successor := TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      models.StatusOpen,
		Shared:      task.Shared,
		Owner:       user.ID,
		DueDate:     NextDueDate(task.DueDate, task.Recurrence),
		Priority:    task.Priority,
		Tags:        task.Tags,
		Recurrence:  task.Recurrence,
	}

	_, err := tasks.remote.Create(ctx, successor)
	tasks.refetch(ctx)
	if err != nil {
		slog.Error("creating recurring task successor", "task", task.ID, "error", err)
		return failed(err)
	}
	return succeeded()
}

// Update changes the given fields of a task and fetches the list again.
func (tasks *Tasks) Update(ctx context.Context, id string, fields map[string]any) Result {
	return tasks.update(ctx, id, fields)
}

// Restore creates a copy of a deleted task with its status and subtask
// titles. The copy belongs to the current user.
func (tasks *Tasks) Restore(ctx context.Context, task models.Task) Result {
	input := TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Shared:      task.Shared,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Tags:        task.Tags,
		Recurrence:  task.Recurrence,
	}
	for _, subtask := range task.Expand.Subtasks {
		input.Subtasks = append(input.Subtasks, subtask.Title)
	}
	return tasks.insert(ctx, input)
}

func (tasks *Tasks) CreateSubtask(ctx context.Context, taskID, title string) Result {
	if _, err := tasks.subtasks.Create(ctx, subtaskInput{Task: taskID, Title: title}); err != nil {
		slog.Error("creating subtask", "task", taskID, "error", err)
		return failed(err)
	}
	tasks.refetch(ctx)
	return succeeded()
}

func (tasks *Tasks) ToggleSubtask(ctx context.Context, subtask models.Subtask) Result {
	if _, err := tasks.subtasks.Update(ctx, subtask.ID, map[string]any{"done": !subtask.Done}); err != nil {
		slog.Error("toggling subtask", "subtask", subtask.ID, "error", err)
		return failed(err)
	}
	tasks.refetch(ctx)
	return succeeded()
}

func (tasks *Tasks) DeleteSubtask(ctx context.Context, id string) Result {
	if err := tasks.subtasks.Delete(ctx, id); err != nil {
		slog.Error("deleting subtask", "subtask", id, "error", err)
		return failed(err)
	}
	tasks.refetch(ctx)
	return succeeded()
}
