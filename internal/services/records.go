package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
)

const (
	DefaultPerPage = 30
	MaxPerPage     = repository.MaxPageSize
)

type Action int

const (
	ActionView Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Policy holds the collection specific rules of a RecordService.
type Policy[T any] interface {
	// Scope restricts list queries to the records user may see.
	Scope(user models.User) filter.Expr
	Authorize(ctx context.Context, user models.User, record T, action Action) error
	// Prepare restores server managed fields from original and fills defaults.
	Prepare(record *T, original T, user models.User, action Action)
	// Validate checks record as user would store it over original. Relations
	// user cannot see are reported as missing.
	Validate(ctx context.Context, user models.User, record, original T) error
	// Expand fills the named relation, leaving out related records user
	// cannot see.
	Expand(ctx context.Context, user models.User, records []T, field string) error
}

type Query struct {
	Filter  string
	Sort    string
	Page    int
	PerPage int
	Expand  []string
}

type Page[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// RecordService implements list, view, create, update and delete for one
// collection on top of a repository table.
type RecordService[T any] struct {
	name    string
	table   repository.Table[T]
	columns filter.Columns
	policy  Policy[T]
}

func NewRecordService[T any](name string, table repository.Table[T], columns filter.Columns, policy Policy[T]) *RecordService[T] {
	return &RecordService[T]{name: name, table: table, columns: columns, policy: policy}
}

func (service *RecordService[T]) Name() string {
	return service.name
}

func (service *RecordService[T]) List(ctx context.Context, user models.User, query Query) (Page[T], error) {
	userFilter, err := filter.Parse(query.Filter)
	if err != nil {
		return Page[T]{}, invalidRequest("Invalid filter: " + err.Error())
	}
	sort, err := filter.ParseSort(query.Sort)
	if err != nil {
		return Page[T]{}, invalidRequest("Invalid sort: " + err.Error())
	}

	page := max(query.Page, 1)
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)

	where := filter.And(service.policy.Scope(user), userFilter)

	total, err := service.table.Count(ctx, where)
	if err != nil {
		return Page[T]{}, service.queryError(err)
	}

	items, err := service.table.FindAll(ctx, repository.ListQuery{
		Filter: where,
		Sort:   sort,
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return Page[T]{}, service.queryError(err)
	}

	if err := service.expand(ctx, user, items, query.Expand); err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
		Items:      items,
	}, nil
}

func (service *RecordService[T]) Get(ctx context.Context, user models.User, id string, expand []string) (T, error) {
	record, err := service.find(ctx, user, id)
	if err != nil {
		return record, err
	}
	records := []T{record}
	if err := service.expand(ctx, user, records, expand); err != nil {
		var zero T
		return zero, err
	}
	return records[0], nil
}

// Create decodes body into a new record owned by user.
func (service *RecordService[T]) Create(ctx context.Context, user models.User, body []byte, expand []string) (T, error) {
	var zero, record T
	if err := decodeRecord(body, &record); err != nil {
		return zero, err
	}
	service.policy.Prepare(&record, zero, user, ActionCreate)

	if err := service.policy.Validate(ctx, user, record, zero); err != nil {
		return zero, err
	}
	if err := service.policy.Authorize(ctx, user, record, ActionCreate); err != nil {
		return zero, err
	}

	created, err := service.table.Create(ctx, record)
	if err != nil {
		return zero, fmt.Errorf("creating %s record: %w", service.name, err)
	}
	return service.expandOne(ctx, user, created, expand)
}

// Update merges the fields present in body into the stored record.
func (service *RecordService[T]) Update(ctx context.Context, user models.User, id string, body []byte, expand []string) (T, error) {
	var zero T
	existing, err := service.find(ctx, user, id)
	if err != nil {
		return zero, err
	}

	record := existing
	if err := decodeRecord(body, &record); err != nil {
		return zero, err
	}
	service.policy.Prepare(&record, existing, user, ActionUpdate)

	if err := service.policy.Validate(ctx, user, record, existing); err != nil {
		return zero, err
	}
	if err := service.policy.Authorize(ctx, user, record, ActionUpdate); err != nil {
		return zero, err
	}

	updated, err := service.table.Update(ctx, record)
	if err != nil {
		return zero, fmt.Errorf("updating %s record: %w", service.name, err)
	}
	return service.expandOne(ctx, user, updated, expand)
}

func (service *RecordService[T]) Delete(ctx context.Context, user models.User, id string) error {
	existing, err := service.find(ctx, user, id)
	if err != nil {
		return err
	}
	if err := service.policy.Authorize(ctx, user, existing, ActionDelete); err != nil {
		return err
	}
	if err := service.table.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting %s record: %w", service.name, err)
	}
	return nil
}

func (service *RecordService[T]) find(ctx context.Context, user models.User, id string) (T, error) {
	var zero T
	record, err := service.table.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("finding %s record: %w", service.name, err)
	}
	if err := service.policy.Authorize(ctx, user, record, ActionView); err != nil {
		return zero, err
	}
	return record, nil
}

func (service *RecordService[T]) expandOne(ctx context.Context, user models.User, record T, fields []string) (T, error) {
	records := []T{record}
	if err := service.expand(ctx, user, records, fields); err != nil {
		var zero T
		return zero, err
	}
	return records[0], nil
}

func (service *RecordService[T]) expand(ctx context.Context, user models.User, records []T, fields []string) error {
	if len(records) == 0 {
		return nil
	}
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if err := service.policy.Expand(ctx, user, records, field); err != nil {
			return err
		}
	}
	return nil
}

func (service *RecordService[T]) queryError(err error) error {
	if errors.Is(err, filter.ErrUnknownField) {
		return invalidRequest("Invalid filter or sort: " + err.Error())
	}
	return fmt.Errorf("listing %s records: %w", service.name, err)
}

func decodeRecord(body []byte, record any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, record); err != nil {
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &typeError) && typeError.Field != "" {
			validationError := newValidationError()
			validationError.Add(typeError.Field, CodeInvalidValue, "Invalid value.")
			return validationError
		}
		return invalidRequest("Failed to load the submitted data.")
	}
	return nil
}
