package collection

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ListOptions struct {
	Filter  string
	Sort    string
	Page    int
	PerPage int
	Expand  string
}

type ListResult[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// Collection is a typed view of one remote collection.
type Collection[T any] struct {
	client *Client
	name   string
	expand string
}

// For returns the collection called name. expand is sent with create, update
// and getOne requests.
func For[T any](client *Client, name, expand string) *Collection[T] {
	return &Collection[T]{client: client, name: name, expand: expand}
}

func (collection *Collection[T]) Name() string {
	return collection.name
}

func (collection *Collection[T]) path(id string) string {
	path := "/api/collections/" + url.PathEscape(collection.name) + "/records"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

func (collection *Collection[T]) expandQuery() url.Values {
	if collection.expand == "" {
		return nil
	}
	return url.Values{"expand": {collection.expand}}
}

func (collection *Collection[T]) List(ctx context.Context, options ListOptions) (ListResult[T], error) {
	query := url.Values{}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}
	if options.Sort != "" {
		query.Set("sort", options.Sort)
	}
	if options.Page > 0 {
		query.Set("page", strconv.Itoa(options.Page))
	}
	if options.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(options.PerPage))
	}
	expand := options.Expand
	if expand == "" {
		expand = collection.expand
	}
	if expand != "" {
		query.Set("expand", expand)
	}

	var result ListResult[T]
	if err := collection.client.doRequest(ctx, http.MethodGet, collection.path(""), query, nil, &result); err != nil {
		return ListResult[T]{}, err
	}
	if result.Items == nil {
		result.Items = []T{}
	}
	return result, nil
}

func (collection *Collection[T]) GetOne(ctx context.Context, id string) (T, error) {
	var record T
	err := collection.client.doRequest(ctx, http.MethodGet, collection.path(id), collection.expandQuery(), nil, &record)
	return record, err
}

// Create sends fields, typically a map or a record struct, and returns the
// stored record.
func (collection *Collection[T]) Create(ctx context.Context, fields any) (T, error) {
	var record T
	err := collection.client.doRequest(ctx, http.MethodPost, collection.path(""), collection.expandQuery(), fields, &record)
	return record, err
}

// Update sends a partial update; only the given fields change.
func (collection *Collection[T]) Update(ctx context.Context, id string, fields any) (T, error) {
	var record T
	err := collection.client.doRequest(ctx, http.MethodPatch, collection.path(id), collection.expandQuery(), fields, &record)
	return record, err
}

func (collection *Collection[T]) Delete(ctx context.Context, id string) error {
	return collection.client.doRequest(ctx, http.MethodDelete, collection.path(id), nil, nil, nil)
}
