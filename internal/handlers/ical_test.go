package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/go-chi/chi/v5"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
)

type tokenUsers map[string]models.User

func (users tokenUsers) Authenticate(_ context.Context, token string) (models.User, error) {
	user, ok := users[token]
	if !ok {
		return models.User{}, services.ErrUnauthorized
	}
	return user, nil
}

func setupICalRouter(t *testing.T) (*chi.Mux, repository.TaskRepository, models.User, models.User) {
	t.Helper()
	database := testutil.NewTestDatabase(t)
	anna := testutil.CreateUser(t, database, "anna@example.com")
	ben := testutil.CreateUser(t, database, "ben@example.com")

	taskRepo := repository.NewTaskRepository(database)
	taskService := services.NewRecordService[models.Task](
		models.CollectionTasks,
		taskRepo,
		repository.TaskColumns,
		services.NewTaskPolicy(repository.NewSubtaskRepository(database)),
	)

	handler := NewICalHandler(tokenUsers{"anna-token": anna, "ben-token": ben}, taskService)
	router := chi.NewRouter()
	router.Get("/api/calendar/tasks.ics", handler.TaskFeed)
	return router, taskRepo, anna, ben
}

func TestICalHandler_RejectsMissingToken(t *testing.T) {
	router, _, _, _ := setupICalRouter(t)

	for _, target := range []string{"/api/calendar/tasks.ics", "/api/calendar/tasks.ics?token=forged"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", target, recorder.Code)
		}
	}
}

func TestICalHandler_TaskFeed(t *testing.T) {
	router, taskRepo, anna, ben := setupICalRouter(t)
	ctx := context.Background()

	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "Take out bins", Owner: anna.ID, Status: models.StatusOpen, DueDate: &due, Priority: models.PriorityHigh, Tags: "home", Recurrence: models.RecurrenceWeekly},
		{Title: "Call plumber", Owner: anna.ID, Status: models.StatusDone, Recurrence: models.RecurrenceNone},
		{Title: "Ben's secret", Owner: ben.ID, Status: models.StatusOpen, Recurrence: models.RecurrenceNone},
	}
	for _, task := range tasks {
		if _, err := taskRepo.Create(ctx, task); err != nil {
			t.Fatalf("creating task: %v", err)
		}
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/calendar/tasks.ics?token=anna-token", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/calendar") {
		t.Errorf("expected text/calendar, got %q", contentType)
	}

	body := recorder.Body.String()
	for _, want := range []string{"SUMMARY:Take out bins", "SUMMARY:Call plumber", "STATUS:COMPLETED", "STATUS:NEEDS-ACTION", "PRIORITY:1", "CATEGORIES:home", "20240308"} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Ben's secret") {
		t.Error("feed contains another user's private task")
	}

	calendar, err := ical.ParseCalendar(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parsing feed: %v", err)
	}
	todos := 0
	for _, component := range calendar.Components {
		if _, ok := component.(*ical.VTodo); ok {
			todos++
		}
	}
	if todos != 2 {
		t.Errorf("expected 2 todos, got %d", todos)
	}
}

func TestICalHandler_AcceptsBearerHeader(t *testing.T) {
	router, _, _, _ := setupICalRouter(t)

	request := httptest.NewRequest(http.MethodGet, "/api/calendar/tasks.ics", nil)
	request.Header.Set("Authorization", "Bearer ben-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}
}
