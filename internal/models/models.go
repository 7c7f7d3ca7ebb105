package models

import "time"

type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Toggled returns the opposite status.
func (status Status) Toggled() Status {
	if status == StatusOpen {
		return StatusDone
	}
	return StatusOpen
}

func (status Status) Valid() bool {
	return status == StatusOpen || status == StatusDone
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (recurrence Recurrence) Valid() bool {
	switch recurrence {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (priority Priority) Valid() bool {
	switch priority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func (theme Theme) Valid() bool {
	return theme == ThemeSystem || theme == ThemeLight || theme == ThemeDark
}

// Collection names shared by the client and the server.
const (
	CollectionTasks         = "tasks"
	CollectionSubtasks      = "subtasks"
	CollectionShoppingItems = "shopping_items"
	CollectionRecipes       = "recipes"
	CollectionIngredients   = "ingredients"
	CollectionUsers         = "users"
)

// MaxExtraImages caps Recipe.ExtraImages.
const MaxExtraImages = 3

// User is the identity record. PasswordHash, OIDCSubject and TokenKey never leave the server.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Theme          Theme     `json:"theme"`
	HapticsEnabled bool      `json:"haptics_enabled"`
	PasswordHash   string    `json:"-"`
	OIDCSubject    string    `json:"-"`
	TokenKey       string    `json:"-"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
}

// DisplayName falls back to the email when no name is set.
func (user User) DisplayName() string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Shared      bool       `json:"shared"`
	Owner       string     `json:"owner"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	Tags        string     `json:"tags"`
	Recurrence  Recurrence `json:"recurrence"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	Expand      TaskExpand `json:"expand"`
}

type TaskExpand struct {
	Subtasks []Subtask `json:"subtasks,omitempty"`
}

type Subtask struct {
	ID      string    `json:"id"`
	Task    string    `json:"task"`
	Title   string    `json:"title"`
	Done    bool      `json:"done"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type ShoppingItem struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Amount       string             `json:"amount"`
	Status       Status             `json:"status"`
	Shared       bool               `json:"shared"`
	Owner        string             `json:"owner"`
	Category     string             `json:"category"`
	SourceRecipe string             `json:"source_recipe"`
	Created      time.Time          `json:"created"`
	Updated      time.Time          `json:"updated"`
	Expand       ShoppingItemExpand `json:"expand"`
}

type ShoppingItemExpand struct {
	SourceRecipe *Recipe `json:"source_recipe,omitempty"`
}

type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients string       `json:"ingredients"`
	Steps       string       `json:"steps"`
	Tags        string       `json:"tags"`
	IsFavorite  bool         `json:"is_favorite"`
	Shared      bool         `json:"shared"`
	Owner       string       `json:"owner"`
	MainImage   string       `json:"main_image"`
	ExtraImages []string     `json:"extra_images"`
	Created     time.Time    `json:"created"`
	Updated     time.Time    `json:"updated"`
	Expand      RecipeExpand `json:"expand"`
}

type RecipeExpand struct {
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}

type Ingredient struct {
	ID      string    `json:"id"`
	Recipe  string    `json:"recipe"`
	Name    string    `json:"name"`
	Amount  string    `json:"amount"`
	Unit    string    `json:"unit"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}
