package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	ical "github.com/arran4/golang-ical"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/middleware"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
)

// ICalHandler publishes the tasks a user can see as a VTODO calendar.
// Calendar apps cannot send headers, so the token may come as a query
// parameter.
type ICalHandler struct {
	authenticator middleware.TokenAuthenticator
	tasks         *services.RecordService[models.Task]
}

func NewICalHandler(authenticator middleware.TokenAuthenticator, tasks *services.RecordService[models.Task]) *ICalHandler {
	return &ICalHandler{authenticator: authenticator, tasks: tasks}
}

func (handler *ICalHandler) TaskFeed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.BearerToken(r)
	}

	ctx := r.Context()
	user, err := handler.authenticator.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, services.ErrUnauthorized) {
			slog.Error("authenticating calendar feed", "error", err)
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, err := handler.tasks.List(ctx, user, services.Query{Sort: "-status,-created", PerPage: repository.MaxPageSize})
	if err != nil {
		slog.Error("listing tasks for ical", "user", user.ID, "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//AppDashboard//Tasks//EN")
	for _, task := range page.Items {
		addTodo(calendar, task)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=tasks.ics")
	w.Write([]byte(calendar.Serialize()))
}

func addTodo(calendar *ical.Calendar, task models.Task) {
	todo := calendar.AddTodo(task.ID + "@appdashboard")
	todo.SetSummary(task.Title)
	if task.Description != "" {
		todo.SetDescription(task.Description)
	}
	todo.SetDtStampTime(task.Updated.UTC())
	if task.DueDate != nil {
		todo.SetDueAt(task.DueDate.UTC())
	}

	if task.Status == models.StatusDone {
		todo.SetStatus(ical.ObjectStatusCompleted)
	} else {
		todo.SetStatus(ical.ObjectStatusNeedsAction)
	}

	// RFC 5545 priorities: 1 is highest, 9 lowest.
	switch task.Priority {
	case models.PriorityHigh:
		todo.SetProperty(ical.ComponentPropertyPriority, "1")
	case models.PriorityMedium:
		todo.SetProperty(ical.ComponentPropertyPriority, "5")
	case models.PriorityLow:
		todo.SetProperty(ical.ComponentPropertyPriority, "9")
	}

	if task.Tags != "" {
		todo.SetProperty(ical.ComponentPropertyCategories, task.Tags)
	}
}
