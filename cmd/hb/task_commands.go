package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

const dateLayout = "2006-01-02"

func taskID(task models.Task) string { return task.ID }

func parseDue(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("due date must look like %s: %w", dateLayout, err)
	}
	return &due, nil
}

func newTasksCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"todo"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTasksListCommand(app),
		newTasksAddCommand(app),
		newTasksDoneCommand(app),
		newTasksEditCommand(app),
		newTasksRemoveCommand(app),
		newTasksRestoreCommand(app),
		newSubtasksCommand(app),
		newTasksCalendarCommand(app),
	)
	return cmd
}

func newTasksCalendarCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Print the calendar subscription URL for your tasks",
		Long:  "The URL contains your session token. It stops working when you change your password.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			app.printf("%s/api/calendar/tasks.ics?token=%s\n", app.client.BaseURL(), url.QueryEscape(app.client.Token()))
			return nil
		},
	}
}

func newTasksListCommand(app *app) *cobra.Command {
	var shared, private bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks and shared ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := allTasks
			switch {
			case shared:
				filter = sharedTasks
			case private:
				filter = privateTasks
			}
			user, err := app.fetched(cmd.Context(), app.tasks.Fetch)
			if err != nil {
				return err
			}
			app.printf("%s", renderTasks(app.tasks.Items(), user.ID, time.Now(), filter))
			return nil
		},
	}
	cmd.Flags().BoolVar(&shared, "shared", false, "only shared tasks")
	cmd.Flags().BoolVar(&private, "private", false, "only tasks not shared")
	cmd.MarkFlagsMutuallyExclusive("shared", "private")
	return cmd
}

func newTasksAddCommand(app *app) *cobra.Command {
	var input lists.TaskInput
	var due, priority, recurrence string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			dueDate, err := parseDue(due)
			if err != nil {
				return err
			}
			input.Title = args[0]
			input.DueDate = dueDate
			input.Priority = models.Priority(priority)
			input.Recurrence = models.Recurrence(recurrence)
			if err := check(app.tasks.Create(cmd.Context(), input)); err != nil {
				return err
			}
			app.printf("%s %s\n", successStyle.Render("added"), input.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Description, "description", "", "longer description")
	cmd.Flags().BoolVar(&input.Shared, "shared", false, "share with the household")
	cmd.Flags().StringVar(&input.Tags, "tags", "", "comma separated tags")
	cmd.Flags().StringSliceVar(&input.Subtasks, "sub", nil, "subtask title, repeatable")
	cmd.Flags().StringVar(&due, "due", "", "due date ("+dateLayout+")")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&recurrence, "repeat", string(models.RecurrenceNone), "none, daily, weekly or monthly")
	return cmd
}

func newTasksDoneCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task>",
		Short: "Toggle a task between open and done",
		Long:  "Completing a repeating task creates its next occurrence.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.fetched(cmd.Context(), app.tasks.Fetch); err != nil {
				return err
			}
			id, err := resolve(app.tasks.Items(), args[0], taskID)
			if err != nil {
				return err
			}
			return check(app.tasks.Toggle(cmd.Context(), id))
		},
	}
}

func newTasksEditCommand(app *app) *cobra.Command {
	var title, description, due, priority, recurrence, tags string
	var shared bool

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.fetched(cmd.Context(), app.tasks.Fetch); err != nil {
				return err
			}
			id, err := resolve(app.tasks.Items(), args[0], taskID)
			if err != nil {
				return err
			}

			fields := map[string]any{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				fields["title"] = title
			}
			if flags.Changed("description") {
				fields["description"] = description
			}
			if flags.Changed("due") {
				dueDate, err := parseDue(due)
				if err != nil {
					return err
				}
				fields["due_date"] = dueDate
			}
			if flags.Changed("priority") {
				fields["priority"] = priority
			}
			if flags.Changed("repeat") {
				fields["recurrence"] = recurrence
			}
			if flags.Changed("tags") {
				fields["tags"] = tags
			}
			if flags.Changed("shared") {
				fields["shared"] = shared
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change")
			}
			return check(app.tasks.Update(cmd.Context(), id, fields))
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date ("+dateLayout+"), empty to clear")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&recurrence, "repeat", "", "none, daily, weekly or monthly")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().BoolVar(&shared, "shared", false, "share with the household")
	return cmd
}

func newTasksRemoveCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.fetched(cmd.Context(), app.tasks.Fetch); err != nil {
				return err
			}
			id, err := resolve(app.tasks.Items(), args[0], taskID)
			if err != nil {
				return err
			}
			task, _ := find(app.tasks.Items(), id, taskID)
			if err := check(app.tasks.Delete(cmd.Context(), id)); err != nil {
				return err
			}
			if err := remember(app.undo, "task", task); err != nil {
				return err
			}
			app.printf("%s %s, run hb tasks restore to undo\n", successStyle.Render("deleted"), task.Title)
			return nil
		},
	}
}

func newTasksRestoreCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Create the last deleted task again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.signedIn(cmd.Context()); err != nil {
				return err
			}
			task, err := recall[models.Task](app.undo, "task")
			if err != nil {
				return err
			}
			if err := check(app.tasks.Restore(cmd.Context(), task)); err != nil {
				return err
			}
			app.printf("%s %s\n", successStyle.Render("restored"), task.Title)
			return app.undo.forget("task")
		},
	}
}

func newSubtasksCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage the subtasks of a task",
	}

	// subtask resolves a task reference and a 1-based subtask position.
	subtask := func(cmd *cobra.Command, taskRef, subtaskRef string) (models.Subtask, error) {
		if _, err := app.fetched(cmd.Context(), app.tasks.Fetch); err != nil {
			return models.Subtask{}, err
		}
		items := app.tasks.Items()
		id, err := resolve(items, taskRef, taskID)
		if err != nil {
			return models.Subtask{}, err
		}
		for _, task := range items {
			if task.ID != id {
				continue
			}
			subtaskID, err := resolve(task.Expand.Subtasks, subtaskRef, func(subtask models.Subtask) string { return subtask.ID })
			if err != nil {
				return models.Subtask{}, err
			}
			for _, subtask := range task.Expand.Subtasks {
				if subtask.ID == subtaskID {
					return subtask, nil
				}
			}
		}
		return models.Subtask{}, fmt.Errorf("no subtask %q", subtaskRef)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task> <title>",
			Short: "Add a subtask",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := app.fetched(cmd.Context(), app.tasks.Fetch); err != nil {
					return err
				}
				id, err := resolve(app.tasks.Items(), args[0], taskID)
				if err != nil {
					return err
				}
				return check(app.tasks.CreateSubtask(cmd.Context(), id, args[1]))
			},
		},
		&cobra.Command{
			Use:   "toggle <task> <subtask>",
			Short: "Check or uncheck a subtask",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := subtask(cmd, args[0], args[1])
				if err != nil {
					return err
				}
				return check(app.tasks.ToggleSubtask(cmd.Context(), found))
			},
		},
		&cobra.Command{
			Use:   "rm <task> <subtask>",
			Short: "Delete a subtask",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := subtask(cmd, args[0], args[1])
				if err != nil {
					return err
				}
				return check(app.tasks.DeleteSubtask(cmd.Context(), found.ID))
			},
		},
	)
	return cmd
}
