package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")
	muted       = lipgloss.AdaptiveColor{Light: "#6a737d", Dark: "#8b949e"}

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	categoryStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Foreground(muted)
	overdueStyle  = lipgloss.NewStyle().Foreground(destructive)
	favoriteStyle = lipgloss.NewStyle().Foreground(warning)
	successStyle  = lipgloss.NewStyle().Foreground(accent)
	errorStyle    = lipgloss.NewStyle().Foreground(destructive).Bold(true)
)

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func renderUser(user models.User) string {
	var builder strings.Builder
	builder.WriteString(headingStyle.Render(user.DisplayName()))
	builder.WriteString("\n")
	builder.WriteString(metaStyle.Render(fmt.Sprintf("%s · theme %s · haptics %t", user.Email, user.Theme, user.HapticsEnabled)))
	return builder.String()
}

// signedInAs names the user by display name and email.
func signedInAs(user models.User) string {
	if user.Name == "" || user.Name == user.Email {
		return user.Email
	}
	return fmt.Sprintf("%s <%s>", user.Name, user.Email)
}

// renderSummary counts what is still open on each list.
func renderSummary(tasks []models.Task, items []models.ShoppingItem, recipes []models.Recipe) string {
	openTasks, openItems := 0, 0
	for _, task := range tasks {
		if task.Status == models.StatusOpen {
			openTasks++
		}
	}
	for _, item := range items {
		if item.Status == models.StatusOpen {
			openItems++
		}
	}
	return metaStyle.Render(fmt.Sprintf("%d open tasks · %d items to buy · %d recipes", openTasks, openItems, len(recipes)))
}

// taskFilter narrows the task list to shared or private tasks.
type taskFilter string

const (
	allTasks     taskFilter = ""
	sharedTasks  taskFilter = "shared"
	privateTasks taskFilter = "private"
)

func (filter taskFilter) includes(task models.Task) bool {
	switch filter {
	case sharedTasks:
		return task.Shared
	case privateTasks:
		return !task.Shared
	}
	return true
}

// renderTasks prints the tasks filter includes. Numbers stay those of the
// full list so they work with the other task commands.
func renderTasks(tasks []models.Task, userID string, now time.Time, filter taskFilter) string {
	var builder strings.Builder
	builder.WriteString(headingStyle.Render("Tasks"))
	builder.WriteString("\n")

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	shown := 0
	for i, task := range tasks {
		if !filter.includes(task) {
			continue
		}
		shown++
		done := task.Status == models.StatusDone
		title := task.Title
		if done {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&builder, "%3d. %s %s", i+1, checkbox(done), title)

		var meta []string
		if task.DueDate != nil {
			due := "due " + task.DueDate.Format(dateLayout)
			if !done && task.DueDate.Before(today) {
				due = overdueStyle.Render(due)
			}
			meta = append(meta, due)
		}
		if task.Recurrence != "" && task.Recurrence != models.RecurrenceNone {
			meta = append(meta, string(task.Recurrence))
		}
		if task.Priority != models.PriorityNone {
			meta = append(meta, string(task.Priority))
		}
		if task.Tags != "" {
			meta = append(meta, "#"+strings.ReplaceAll(task.Tags, ",", " #"))
		}
		if task.Shared {
			meta = append(meta, "shared")
		}
		if task.Owner != userID {
			meta = append(meta, "from someone else")
		}
		if len(meta) > 0 {
			builder.WriteString("  ")
			builder.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
		}
		builder.WriteString("\n")

		for j, subtask := range task.Expand.Subtasks {
			title := subtask.Title
			if subtask.Done {
				title = doneStyle.Render(title)
			}
			fmt.Fprintf(&builder, "       %d. %s %s\n", j+1, checkbox(subtask.Done), title)
		}
	}
	if shown == 0 {
		builder.WriteString(metaStyle.Render("  nothing to do"))
		builder.WriteString("\n")
	}
	return builder.String()
}

// renderShopping groups items by category. Numbers refer to the list order
// used by the other shop commands.
func renderShopping(items []models.ShoppingItem) string {
	var builder strings.Builder
	builder.WriteString(headingStyle.Render("Shopping list"))
	builder.WriteString("\n")
	if len(items) == 0 {
		builder.WriteString(metaStyle.Render("  the list is empty"))
		builder.WriteString("\n")
		return builder.String()
	}

	for _, category := range lists.Categories() {
		var lines []string
		for i, item := range items {
			if itemCategory(item) != category {
				continue
			}
			done := item.Status == models.StatusDone
			name := item.Name
			if done {
				name = doneStyle.Render(name)
			}
			line := fmt.Sprintf("%3d. %s %s", i+1, checkbox(done), name)
			var meta []string
			if item.Amount != "" {
				meta = append(meta, item.Amount)
			}
			if item.Expand.SourceRecipe != nil {
				meta = append(meta, "for "+item.Expand.SourceRecipe.Title)
			}
			if len(meta) > 0 {
				line += "  " + metaStyle.Render(strings.Join(meta, " · "))
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		builder.WriteString(categoryStyle.Render(category))
		builder.WriteString("\n")
		for _, line := range lines {
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// itemCategory falls back to categorizing by name for items stored without
// a known category.
func itemCategory(item models.ShoppingItem) string {
	for _, category := range lists.Categories() {
		if item.Category == category {
			return category
		}
	}
	return lists.Categorize(item.Name)
}

func renderRecipes(recipes []models.Recipe) string {
	var builder strings.Builder
	builder.WriteString(headingStyle.Render("Recipes"))
	builder.WriteString("\n")
	if len(recipes) == 0 {
		builder.WriteString(metaStyle.Render("  no recipes yet"))
		builder.WriteString("\n")
		return builder.String()
	}

	for i, recipe := range recipes {
		star := " "
		if recipe.IsFavorite {
			star = favoriteStyle.Render("★")
		}
		fmt.Fprintf(&builder, "%3d. %s %s", i+1, star, recipe.Title)
		if count := len(recipe.Expand.Ingredients); count > 0 {
			builder.WriteString("  ")
			builder.WriteString(metaStyle.Render(fmt.Sprintf("%d ingredients", count)))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderRecipe(recipe models.Recipe) string {
	var builder strings.Builder
	title := recipe.Title
	if recipe.IsFavorite {
		title += " " + favoriteStyle.Render("★")
	}
	builder.WriteString(headingStyle.Render(title))
	builder.WriteString("\n")
	if recipe.Description != "" {
		builder.WriteString(recipe.Description)
		builder.WriteString("\n")
	}

	if len(recipe.Expand.Ingredients) > 0 {
		builder.WriteString("\n")
		builder.WriteString(categoryStyle.Render("Ingredients"))
		builder.WriteString("\n")
		for i, ingredient := range recipe.Expand.Ingredients {
			amount := strings.TrimSpace(ingredient.Amount + " " + ingredient.Unit)
			if amount != "" {
				amount = metaStyle.Render(amount) + " "
			}
			fmt.Fprintf(&builder, "%3d. %s%s\n", i+1, amount, ingredient.Name)
		}
	}

	if recipe.Steps != "" {
		builder.WriteString("\n")
		builder.WriteString(categoryStyle.Render("Steps"))
		builder.WriteString("\n")
		builder.WriteString(renderMarkdown(recipe.Steps))
		builder.WriteString("\n")
	}
	return builder.String()
}

// renderMarkdown formats recipe steps, which are often written as markdown
// lists. The raw text is returned when rendering fails.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
