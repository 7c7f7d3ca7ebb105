// Package session tracks the signed-in user of the client and keeps the API
// token across runs.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

// MinPasswordLength matches the server's password rule.
const MinPasswordLength = 8

const (
	MessagePasswordMismatch = "Passwords do not match."
	MessagePasswordTooShort = "Password must be at least 8 characters."
	MessageInvalidTheme     = "Unknown theme."
)

// Store persists the session between runs.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

type State struct {
	Token  string      `json:"token"`
	Record models.User `json:"record"`
}

type listener struct {
	id int
	fn func(*models.User)
}

// Provider holds the current identity and tells subscribers when it changes.
type Provider struct {
	client *collection.Client
	store  Store

	mu        sync.Mutex
	user      *models.User
	listeners []listener
	nextID    int
}

// NewProvider creates a signed-out provider. store may be nil, in which case
// nothing is persisted.
func NewProvider(client *collection.Client, store Store) *Provider {
	return &Provider{client: client, store: store}
}

// Identity returns a copy of the current user, or nil when signed out.
func (provider *Provider) Identity() *models.User {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.user == nil {
		return nil
	}
	user := *provider.user
	return &user
}

// Subscribe registers fn for identity changes. Listeners run on the goroutine
// that changed the identity, without the provider's lock held.
func (provider *Provider) Subscribe(fn func(*models.User)) (unsubscribe func()) {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	id := provider.nextID
	provider.nextID++
	provider.listeners = append(provider.listeners, listener{id: id, fn: fn})

	return func() {
		provider.mu.Lock()
		defer provider.mu.Unlock()
		for i, entry := range provider.listeners {
			if entry.id == id {
				provider.listeners = append(provider.listeners[:i], provider.listeners[i+1:]...)
				return
			}
		}
	}
}

func (provider *Provider) setUser(user *models.User) {
	provider.mu.Lock()
	provider.user = user
	listeners := make([]listener, len(provider.listeners))
	copy(listeners, provider.listeners)
	provider.mu.Unlock()

	for _, entry := range listeners {
		if user == nil {
			entry.fn(nil)
			continue
		}
		copied := *user
		entry.fn(&copied)
	}
}

func (provider *Provider) signIn(response collection.AuthResponse) {
	user := response.Record
	provider.persist(State{Token: response.Token, Record: user})
	provider.setUser(&user)
}

func (provider *Provider) persist(state State) {
	if provider.store == nil {
		return
	}
	if err := provider.store.Save(state); err != nil {
		slog.Error("saving session", "error", err)
	}
}

// Login authenticates with an email and password.
func (provider *Provider) Login(ctx context.Context, identity, password string) lists.Result {
	response, err := provider.client.AuthWithPassword(ctx, identity, password)
	if err != nil {
		slog.Warn("logging in", "identity", identity, "error", err)
		return lists.Result{Error: lists.NormalizeError(err)}
	}
	provider.signIn(response)
	slog.Info("logged in", "user", response.Record.ID)
	return lists.Result{Success: true}
}

// Logout forgets the token and the identity.
func (provider *Provider) Logout() {
	provider.client.SetToken("")
	if provider.store != nil {
		if err := provider.store.Clear(); err != nil {
			slog.Error("clearing session", "error", err)
		}
	}
	provider.setUser(nil)
}

// Restore resumes a persisted session by exchanging its token for a fresh
// one. A token the server rejects is discarded.
func (provider *Provider) Restore(ctx context.Context) lists.Result {
	if provider.store == nil {
		return lists.Result{Error: lists.MessageSignedOut}
	}
	state, err := provider.store.Load()
	if errors.Is(err, ErrNoSession) {
		return lists.Result{Error: lists.MessageSignedOut}
	}
	if err != nil {
		slog.Error("loading session", "error", err)
		return lists.Result{Error: lists.NormalizeError(err)}
	}

	provider.client.SetToken(state.Token)
	response, err := provider.client.AuthRefresh(ctx)
	if err != nil {
		if collection.StatusOf(err) == http.StatusUnauthorized {
			provider.Logout()
			return lists.Result{Error: lists.MessageSignedOut}
		}
		return lists.Result{Error: lists.NormalizeError(err)}
	}
	provider.signIn(response)
	return lists.Result{Success: true}
}

// ChangePassword checks the new password locally, changes it on the server
// and signs in again, since the change invalidates the current token.
func (provider *Provider) ChangePassword(ctx context.Context, oldPassword, password, passwordConfirm string) lists.Result {
	user := provider.Identity()
	if user == nil {
		return lists.Result{Error: lists.MessageSignedOut}
	}
	if password != passwordConfirm {
		return lists.Result{Error: MessagePasswordMismatch}
	}
	if len(password) < MinPasswordLength {
		return lists.Result{Error: MessagePasswordTooShort}
	}

	_, err := provider.client.UpdateUser(ctx, user.ID, map[string]any{
		"oldPassword":     oldPassword,
		"password":        password,
		"passwordConfirm": passwordConfirm,
	})
	if err != nil {
		slog.Warn("changing password", "user", user.ID, "error", err)
		return lists.Result{Error: lists.NormalizeError(err)}
	}

	response, err := provider.client.AuthWithPassword(ctx, user.Email, password)
	if err != nil {
		slog.Error("logging in after password change", "user", user.ID, "error", err)
		provider.Logout()
		return lists.Result{Error: lists.NormalizeError(err)}
	}
	provider.signIn(response)
	return lists.Result{Success: true}
}

// UpdatePreferences stores the theme and haptics settings of the current
// user.
func (provider *Provider) UpdatePreferences(ctx context.Context, theme models.Theme, haptics bool) lists.Result {
	user := provider.Identity()
	if user == nil {
		return lists.Result{Error: lists.MessageSignedOut}
	}
	if !theme.Valid() {
		return lists.Result{Error: MessageInvalidTheme}
	}

	updated, err := provider.client.UpdateUser(ctx, user.ID, map[string]any{
		"theme":           theme,
		"haptics_enabled": haptics,
	})
	if err != nil {
		slog.Warn("updating preferences", "user", user.ID, "error", err)
		return lists.Result{Error: lists.NormalizeError(err)}
	}
	provider.persist(State{Token: provider.client.Token(), Record: updated})
	provider.setUser(&updated)
	return lists.Result{Success: true}
}
