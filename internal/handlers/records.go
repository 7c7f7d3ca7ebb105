package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/middleware"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
	"github.com/go-chi/chi/v5"
)

// RecordHandler serves the records endpoints of one collection.
type RecordHandler[T any] struct {
	service *services.RecordService[T]
}

func NewRecordHandler[T any](service *services.RecordService[T]) *RecordHandler[T] {
	return &RecordHandler[T]{service: service}
}

func (handler *RecordHandler[T]) Routes(r chi.Router) {
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Get("/{id}", handler.View)
	r.Patch("/{id}", handler.Update)
	r.Delete("/{id}", handler.Delete)
}

func (handler *RecordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page, err := intParam(values.Get("page"))
	if err != nil {
		writeError(w, &services.ValidationError{Message: "Invalid page."})
		return
	}
	perPage, err := intParam(values.Get("perPage"))
	if err != nil {
		writeError(w, &services.ValidationError{Message: "Invalid perPage."})
		return
	}

	result, err := handler.service.List(r.Context(), middleware.GetUser(r.Context()), services.Query{
		Filter:  values.Get("filter"),
		Sort:    values.Get("sort"),
		Page:    page,
		PerPage: perPage,
		Expand:  expandParam(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (handler *RecordHandler[T]) View(w http.ResponseWriter, r *http.Request) {
	record, err := handler.service.Get(r.Context(), middleware.GetUser(r.Context()), chi.URLParam(r, "id"), expandParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (handler *RecordHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := handler.service.Create(r.Context(), middleware.GetUser(r.Context()), body, expandParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (handler *RecordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := handler.service.Update(r.Context(), middleware.GetUser(r.Context()), chi.URLParam(r, "id"), body, expandParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (handler *RecordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.service.Delete(r.Context(), middleware.GetUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func expandParam(r *http.Request) []string {
	raw := r.URL.Query().Get("expand")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
