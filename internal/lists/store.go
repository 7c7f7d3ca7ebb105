// Package lists keeps local copies of the task, shopping and recipe
// collections in sync with the server.
package lists

import (
	"context"
	"log/slog"
	"sync"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/filter"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

// PageSize is the number of records requested per fetch.
const PageSize = 200

// Result reports the outcome of a store operation. Error holds a display
// message and is empty on success.
type Result struct {
	Success bool
	Error   string
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Error: NormalizeError(err)}
}

func failure(message string) Result {
	return Result{Error: message}
}

// IdentitySource supplies the signed-in user. session.Provider implements it.
type IdentitySource interface {
	Identity() *models.User
	Subscribe(listener func(*models.User)) (unsubscribe func())
}

// Remote is the subset of a record collection the stores use.
// *collection.Collection implements it.
type Remote[T any] interface {
	List(ctx context.Context, options collection.ListOptions) (collection.ListResult[T], error)
	Create(ctx context.Context, fields any) (T, error)
	Update(ctx context.Context, id string, fields any) (T, error)
	Delete(ctx context.Context, id string) error
}

// store is the ordered local list shared by every collection store. The
// mutex guards the list only and is never held during a remote call.
type store[T any] struct {
	name     string
	remote   Remote[T]
	identity IdentitySource
	sort     string
	expand   string
	idOf     func(T) string

	mu      sync.Mutex
	items   []T
	loading bool
	err     string
}

func newStore[T any](name string, remote Remote[T], identity IdentitySource, sort, expand string, idOf func(T) string) *store[T] {
	return &store[T]{
		name:     name,
		remote:   remote,
		identity: identity,
		sort:     sort,
		expand:   expand,
		idOf:     idOf,
		items:    []T{},
		loading:  true,
	}
}

// Items returns a copy of the current list.
func (store *store[T]) Items() []T {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]T(nil), store.items...)
}

// Loading reports whether the list has not been fetched successfully yet or
// a fetch is in flight.
func (store *store[T]) Loading() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.loading
}

// Err returns the message of the last failed fetch, or "".
func (store *store[T]) Err() string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.err
}

func (store *store[T]) currentUser() (*models.User, bool) {
	user := store.identity.Identity()
	return user, user != nil
}

// Fetch replaces the list with the records visible to the current user.
func (store *store[T]) Fetch(ctx context.Context) Result {
	user, ok := store.currentUser()
	if !ok {
		return failure(MessageSignedOut)
	}

	store.mu.Lock()
	store.loading = true
	store.mu.Unlock()

	result, err := store.remote.List(ctx, collection.ListOptions{
		Filter:  visibleTo(user.ID),
		Sort:    store.sort,
		PerPage: PageSize,
		Expand:  store.expand,
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	store.loading = false
	if err != nil {
		slog.Error("fetching records", "collection", store.name, "error", err)
		store.err = NormalizeError(err)
		return failed(err)
	}
	store.items = result.Items
	store.err = ""
	return succeeded()
}

// refetch reloads the list after a change whose effect is not applied
// locally. A refetch failure is kept in Err and does not change the result
// of the operation that triggered it.
func (store *store[T]) refetch(ctx context.Context) {
	store.Fetch(ctx)
}

func visibleTo(userID string) string {
	return filter.Or(filter.Eq("owner", userID), filter.Eq("shared", true)).String()
}

// Bind follows the identity source: a new identity triggers a fetch and a
// sign-out clears the list. The returned func stops following.
func (store *store[T]) Bind(ctx context.Context) (unbind func()) {
	var mu sync.Mutex
	var current string
	if user := store.identity.Identity(); user != nil {
		current = user.ID
	}

	return store.identity.Subscribe(func(user *models.User) {
		mu.Lock()
		previous := current
		current = ""
		if user != nil {
			current = user.ID
		}
		mu.Unlock()

		switch {
		case user == nil && previous != "":
			store.reset()
		case user != nil && user.ID != previous:
			if previous != "" {
				store.reset()
			}
			store.Fetch(ctx)
		}
	})
}

func (store *store[T]) reset() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.items = []T{}
	store.loading = true
	store.err = ""
}

func (store *store[T]) find(id string) (T, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, item := range store.items {
		if store.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (store *store[T]) prepend(item T) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.items = append([]T{item}, store.items...)
}

// modify applies change to the entry with the given id, if it is still listed.
func (store *store[T]) modify(id string, change func(*T)) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := range store.items {
		if store.idOf(store.items[i]) == id {
			change(&store.items[i])
			return
		}
	}
}

// removeWhere drops every matching entry. It returns the dropped entries in
// list order and the list as it was before.
func (store *store[T]) removeWhere(match func(T) bool) (taken, snapshot []T) {
	store.mu.Lock()
	defer store.mu.Unlock()
	snapshot = store.items
	kept := make([]T, 0, len(store.items))
	for _, item := range store.items {
		if match(item) {
			taken = append(taken, item)
			continue
		}
		kept = append(kept, item)
	}
	store.items = kept
	return taken, snapshot
}

// replace swaps in a previously taken snapshot.
func (store *store[T]) replace(items []T) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.items = items
}

// optimistic applies a local change, runs the remote call and reverts the
// change when the call fails.
func (store *store[T]) optimistic(ctx context.Context, apply, revert func(), call func(context.Context) error) Result {
	apply()
	if err := call(ctx); err != nil {
		revert()
		slog.Error("syncing change", "collection", store.name, "error", err)
		return failed(err)
	}
	return succeeded()
}

// Delete removes the entry locally before deleting it remotely and puts the
// whole pre-delete list back when that fails.
func (store *store[T]) Delete(ctx context.Context, id string) Result {
	var snapshot []T
	return store.optimistic(ctx,
		func() {
			_, snapshot = store.removeWhere(func(item T) bool { return store.idOf(item) == id })
		},
		func() { store.replace(snapshot) },
		func(ctx context.Context) error { return store.remote.Delete(ctx, id) },
	)
}

// create posts fields and prepends the stored record.
func (store *store[T]) create(ctx context.Context, fields any) (T, Result) {
	record, err := store.remote.Create(ctx, fields)
	if err != nil {
		slog.Error("creating record", "collection", store.name, "error", err)
		return record, failed(err)
	}
	store.prepend(record)
	return record, succeeded()
}

// update sends a partial update and reloads the list.
func (store *store[T]) update(ctx context.Context, id string, fields any) Result {
	if _, err := store.remote.Update(ctx, id, fields); err != nil {
		slog.Error("updating record", "collection", store.name, "id", id, "error", err)
		return failed(err)
	}
	store.refetch(ctx)
	return succeeded()
}

// fanOut runs call for every element concurrently and returns the first
// error once all calls finished. A failing call does not cancel the others.
func fanOut[E any](ctx context.Context, elements []E, call func(context.Context, E) error) error {
	var group errgroup.Group
	for _, element := range elements {
		group.Go(func() error {
			return call(ctx, element)
		})
	}
	return group.Wait()
}
