package lists_test

import (
	"context"
	"sync"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

// fakeRemote records every call. Hooks left nil succeed with zero values;
// List returns records.
type fakeRemote[T any] struct {
	mu      sync.Mutex
	records []T
	calls   []string
	options []collection.ListOptions
	created []any
	updated []map[string]any

	onList   func() error
	onCreate func(fields any) (T, error)
	onUpdate func(id string, fields any) (T, error)
	onDelete func(id string) error
}

func (remote *fakeRemote[T]) record(call string) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.calls = append(remote.calls, call)
}

func (remote *fakeRemote[T]) List(_ context.Context, options collection.ListOptions) (collection.ListResult[T], error) {
	remote.record("list")
	remote.mu.Lock()
	remote.options = append(remote.options, options)
	items := append([]T{}, remote.records...)
	remote.mu.Unlock()

	if remote.onList != nil {
		if err := remote.onList(); err != nil {
			return collection.ListResult[T]{}, err
		}
	}
	return collection.ListResult[T]{Page: 1, PerPage: options.PerPage, TotalItems: len(items), Items: items}, nil
}

func (remote *fakeRemote[T]) Create(_ context.Context, fields any) (T, error) {
	remote.record("create")
	remote.mu.Lock()
	remote.created = append(remote.created, fields)
	remote.mu.Unlock()

	if remote.onCreate != nil {
		return remote.onCreate(fields)
	}
	var zero T
	return zero, nil
}

func (remote *fakeRemote[T]) Update(_ context.Context, id string, fields any) (T, error) {
	remote.record("update " + id)
	if patch, ok := fields.(map[string]any); ok {
		remote.mu.Lock()
		remote.updated = append(remote.updated, patch)
		remote.mu.Unlock()
	}

	if remote.onUpdate != nil {
		return remote.onUpdate(id, fields)
	}
	var zero T
	return zero, nil
}

func (remote *fakeRemote[T]) Delete(_ context.Context, id string) error {
	remote.record("delete " + id)
	if remote.onDelete != nil {
		return remote.onDelete(id)
	}
	return nil
}

func (remote *fakeRemote[T]) Calls() []string {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	return append([]string(nil), remote.calls...)
}

func (remote *fakeRemote[T]) Created() []any {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	return append([]any(nil), remote.created...)
}

func (remote *fakeRemote[T]) SetRecords(records ...T) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.records = records
}

type fakeIdentity struct {
	mu        sync.Mutex
	user      *models.User
	listeners map[int]func(*models.User)
	next      int
}

func signedIn(id string) *fakeIdentity {
	return &fakeIdentity{user: &models.User{ID: id, Email: id + "@example.com"}}
}

func (identity *fakeIdentity) Identity() *models.User {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	return identity.user
}

func (identity *fakeIdentity) Subscribe(listener func(*models.User)) func() {
	identity.mu.Lock()
	defer identity.mu.Unlock()
	if identity.listeners == nil {
		identity.listeners = make(map[int]func(*models.User))
	}
	key := identity.next
	identity.next++
	identity.listeners[key] = listener
	return func() {
		identity.mu.Lock()
		defer identity.mu.Unlock()
		delete(identity.listeners, key)
	}
}

func (identity *fakeIdentity) Set(user *models.User) {
	identity.mu.Lock()
	identity.user = user
	listeners := make([]func(*models.User), 0, len(identity.listeners))
	for _, listener := range identity.listeners {
		listeners = append(listeners, listener)
	}
	identity.mu.Unlock()

	for _, listener := range listeners {
		listener(user)
	}
}
