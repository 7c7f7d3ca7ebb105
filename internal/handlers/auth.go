package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/middleware"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Token  string      `json:"token"`
	Record models.User `json:"record"`
}

func (handler *AuthHandler) AuthWithPassword(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&credentials); err != nil {
		writeError(w, &services.ValidationError{Message: "Failed to load the submitted data."})
		return
	}

	validationError := &services.ValidationError{Message: "Failed to authenticate."}
	if credentials.Identity == "" {
		validationError.Add("identity", services.CodeRequired, "Cannot be blank.")
	}
	if credentials.Password == "" {
		validationError.Add("password", services.CodeRequired, "Cannot be blank.")
	}
	if err := validationError.OrNil(); err != nil {
		writeError(w, err)
		return
	}

	user, err := handler.authService.Login(r.Context(), credentials.Identity, credentials.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	handler.respondWithToken(w, user)
}

func (handler *AuthHandler) AuthRefresh(w http.ResponseWriter, r *http.Request) {
	handler.respondWithToken(w, middleware.GetUser(r.Context()))
}

func (handler *AuthHandler) ViewUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if chi.URLParam(r, "id") != user.ID {
		writeError(w, services.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (handler *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if chi.URLParam(r, "id") != user.ID {
		writeError(w, services.ErrForbidden)
		return
	}

	var update services.UserUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&update); err != nil {
		writeError(w, &services.ValidationError{Message: "Failed to load the submitted data."})
		return
	}

	updated, err := handler.authService.UpdateUser(r.Context(), user, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *AuthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !handler.authService.OIDCConfigured() {
		http.Error(w, "OIDC not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := handler.authService.GenerateState()
	if err != nil {
		slog.Error("generating state", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, handler.authService.LoginURL(state), http.StatusFound)
}

// OAuthCallback finishes the OIDC flow and answers with a bearer token.
func (handler *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		writeError(w, &services.ValidationError{Message: "Missing state cookie."})
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		writeError(w, &services.ValidationError{Message: "Invalid state."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, &services.ValidationError{Message: "Missing code."})
		return
	}

	user, err := handler.authService.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("handling callback", "error", err)
		writeError(w, services.ErrUnauthorized)
		return
	}
	handler.respondWithToken(w, user)
}

func (handler *AuthHandler) respondWithToken(w http.ResponseWriter, user models.User) {
	token, err := handler.authService.IssueToken(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, Record: user})
}
