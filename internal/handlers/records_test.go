package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/middleware"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func newTaskRouter(t *testing.T) (*chi.Mux, models.User, models.User) {
	t.Helper()
	database := testutil.NewTestDatabase(t)
	anna := testutil.CreateUser(t, database, "anna@example.com")
	ben := testutil.CreateUser(t, database, "ben@example.com")

	taskService := services.NewRecordService[models.Task](
		models.CollectionTasks,
		repository.NewTaskRepository(database),
		repository.TaskColumns,
		services.NewTaskPolicy(repository.NewSubtaskRepository(database)),
	)

	users := map[string]models.User{anna.ID: anna, ben.ID: ben}
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, users[r.Header.Get("X-User")])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Route("/api/collections/tasks/records", NewRecordHandler(taskService).Routes)
	return router, anna, ben
}

func serve(router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("X-User", userID)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRecordHandler_CreateListDelete(t *testing.T) {
	router, anna, _ := newTaskRouter(t)

	created := serve(router, http.MethodPost, "/api/collections/tasks/records", anna.ID, `{"title":"Laundry"}`)
	if created.Code != http.StatusOK {
		t.Fatalf("expected 200 on create, got %d: %s", created.Code, created.Body.String())
	}
	var task models.Task
	if err := json.Unmarshal(created.Body.Bytes(), &task); err != nil {
		t.Fatalf("decoding task: %v", err)
	}

	listed := serve(router, http.MethodGet, "/api/collections/tasks/records?sort=-status,-created&perPage=200&expand=subtasks", anna.ID, "")
	if listed.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", listed.Code)
	}
	var page services.Page[models.Task]
	if err := json.Unmarshal(listed.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	if page.TotalItems != 1 || page.PerPage != 200 || page.Items[0].ID != task.ID {
		t.Errorf("unexpected page %+v", page)
	}

	deleted := serve(router, http.MethodDelete, "/api/collections/tasks/records/"+task.ID, anna.ID, "")
	if deleted.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", deleted.Code)
	}

	missing := serve(router, http.MethodDelete, "/api/collections/tasks/records/"+task.ID, anna.ID, "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", missing.Code)
	}
}

func TestRecordHandler_ErrorShapes(t *testing.T) {
	router, anna, ben := newTaskRouter(t)

	created := serve(router, http.MethodPost, "/api/collections/tasks/records", ben.ID, `{"title":"Ben's","shared":true}`)
	var shared models.Task
	json.Unmarshal(created.Body.Bytes(), &shared)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation keeps field order",
			method:     http.MethodPost,
			target:     "/api/collections/tasks/records",
			body:       `{"title":"","priority":"urgent"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"data":{"title":{"code":"validation_required","message":"Cannot be blank."},"priority":{"code":"validation_invalid_value","message":"Invalid value urgent."}}`,
		},
		{
			name:       "forbidden delete",
			method:     http.MethodDelete,
			target:     "/api/collections/tasks/records/" + shared.ID,
			wantStatus: http.StatusForbidden,
			wantBody:   `"code":403`,
		},
		{
			name:       "unknown id",
			method:     http.MethodGet,
			target:     "/api/collections/tasks/records/nope",
			wantStatus: http.StatusNotFound,
			wantBody:   `"data":{}`,
		},
		{
			name:       "bad filter",
			method:     http.MethodGet,
			target:     "/api/collections/tasks/records?filter=owner%20%3D",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad page",
			method:     http.MethodGet,
			target:     "/api/collections/tasks/records?page=first",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := serve(router, test.method, test.target, anna.ID, test.body)
			if recorder.Code != test.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", test.wantStatus, recorder.Code, recorder.Body.String())
			}
			if test.wantBody != "" && !strings.Contains(recorder.Body.String(), test.wantBody) {
				t.Errorf("expected body to contain %s, got %s", test.wantBody, recorder.Body.String())
			}
		})
	}
}
