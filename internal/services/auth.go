package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	// MinPasswordLength applies to every password set through the API.
	MinPasswordLength = 8
	tokenMaxAge       = 86400 * 30
	tokenName         = "auth"
)

type AuthService struct {
	oauthConfig  *oauth2.Config
	oidcVerifier *oidc.IDTokenVerifier
	secureCookie *securecookie.SecureCookie
	userRepo     repository.UserRepository
}

// TokenData is the signed payload of a bearer token. Rotating the user's
// token key invalidates every token issued before.
type TokenData struct {
	UserID   string `json:"user_id"`
	TokenKey string `json:"token_key"`
}

// UserUpdate carries the editable user fields. Nil pointers are left as is.
type UserUpdate struct {
	Name            *string       `json:"name"`
	Theme           *models.Theme `json:"theme"`
	HapticsEnabled  *bool         `json:"haptics_enabled"`
	OldPassword     string        `json:"oldPassword"`
	Password        string        `json:"password"`
	PasswordConfirm string        `json:"passwordConfirm"`
}

func NewAuthService(ctx context.Context, cfg config.Config, userRepo repository.UserRepository) (*AuthService, error) {
	secureCookie := securecookie.New([]byte(cfg.SessionSecret), nil).MaxAge(tokenMaxAge)

	if cfg.OIDCIssuer == "" {
		slog.Info("OIDC not configured, password login only")
		return &AuthService{
			secureCookie: secureCookie,
			userRepo:     userRepo,
		}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, fmt.Errorf("creating OIDC provider: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthService{
		oauthConfig:  oauthConfig,
		oidcVerifier: verifier,
		secureCookie: secureCookie,
		userRepo:     userRepo,
	}, nil
}

// Login checks an email and password pair.
func (service *AuthService) Login(ctx context.Context, identity, password string) (models.User, error) {
	user, err := service.userRepo.FindByEmail(ctx, normalizeEmail(identity))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	if user.PasswordHash == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) IssueToken(user models.User) (string, error) {
	encoded, err := json.Marshal(TokenData{UserID: user.ID, TokenKey: user.TokenKey})
	if err != nil {
		return "", fmt.Errorf("marshaling token: %w", err)
	}
	token, err := service.secureCookie.Encode(tokenName, string(encoded))
	if err != nil {
		return "", fmt.Errorf("encoding token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (service *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}

	var decoded string
	if err := service.secureCookie.Decode(tokenName, token, &decoded); err != nil {
		return models.User{}, ErrUnauthorized
	}

	var data TokenData
	if err := json.Unmarshal([]byte(decoded), &data); err != nil {
		return models.User{}, ErrUnauthorized
	}

	user, err := service.userRepo.FindByID(ctx, data.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUnauthorized
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	if user.TokenKey != data.TokenKey {
		return models.User{}, ErrUnauthorized
	}
	return user, nil
}

// UpdateUser applies preference and password changes to the user's own record.
func (service *AuthService) UpdateUser(ctx context.Context, user models.User, update UserUpdate) (models.User, error) {
	validationError := newValidationError()

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Theme != nil {
		if !update.Theme.Valid() {
			validationError.Add("theme", CodeInvalidValue, "Invalid value "+string(*update.Theme)+".")
		}
		user.Theme = *update.Theme
	}
	if update.HapticsEnabled != nil {
		user.HapticsEnabled = *update.HapticsEnabled
	}

	changingPassword := update.Password != "" || update.PasswordConfirm != "" || update.OldPassword != ""
	if changingPassword {
		if update.OldPassword == "" {
			validationError.Add("oldPassword", CodeRequired, "Cannot be blank.")
		} else if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(update.OldPassword)) != nil {
			validationError.Add("oldPassword", CodeInvalidPassword, "Missing or invalid old password.")
		}
		if len(update.Password) < MinPasswordLength {
			validationError.Add("password", CodeTooShort, fmt.Sprintf("Must be at least %d character(s).", MinPasswordLength))
		}
		if update.PasswordConfirm != update.Password {
			validationError.Add("passwordConfirm", CodeValuesMismatch, "Values don't match.")
		}
	}

	if err := validationError.OrNil(); err != nil {
		return models.User{}, err
	}

	if changingPassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.TokenKey = uuid.New().String()
	}

	updated, err := service.userRepo.Update(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("updating user: %w", err)
	}
	if changingPassword {
		slog.Info("changed password", "user_id", updated.ID)
	}
	return updated, nil
}

// EnsureUser creates a password user unless the email is already taken.
func (service *AuthService) EnsureUser(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	existing, err := service.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if len(password) < MinPasswordLength {
		return models.User{}, fmt.Errorf("bootstrap password shorter than %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}
	created, err := service.userRepo.Create(ctx, models.User{
		Email:          email,
		Name:           strings.Split(email, "@")[0],
		HapticsEnabled: true,
		PasswordHash:   string(hash),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	slog.Info("bootstrapped user", "id", created.ID, "email", created.Email)
	return created, nil
}

func (service *AuthService) OIDCConfigured() bool {
	return service.oauthConfig != nil
}

func (service *AuthService) LoginURL(state string) string {
	if service.oauthConfig == nil {
		return ""
	}
	return service.oauthConfig.AuthCodeURL(state)
}

func (service *AuthService) GenerateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func (service *AuthService) HandleCallback(ctx context.Context, code string) (models.User, error) {
	if service.oauthConfig == nil {
		return models.User{}, errors.New("OIDC not configured")
	}

	token, err := service.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return models.User{}, fmt.Errorf("exchanging code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return models.User{}, errors.New("no id_token in response")
	}

	idToken, err := service.oidcVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return models.User{}, fmt.Errorf("verifying id token: %w", err)
	}

	var claims struct {
		Subject           string `json:"sub"`
		Email             string `json:"email"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return models.User{}, fmt.Errorf("parsing claims: %w", err)
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}

	return service.provisionUser(ctx, claims.Subject, normalizeEmail(claims.Email), displayName)
}

// provisionUser links an OIDC subject to an existing account by email or
// creates a new one.
func (service *AuthService) provisionUser(ctx context.Context, subject, email, name string) (models.User, error) {
	existing, err := service.userRepo.FindByOIDCSubject(ctx, subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("looking up user: %w", err)
	}

	if email == "" {
		return models.User{}, errors.New("identity provider returned no email")
	}

	byEmail, err := service.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		byEmail.OIDCSubject = subject
		linked, err := service.userRepo.Update(ctx, byEmail)
		if err != nil {
			return models.User{}, fmt.Errorf("linking user: %w", err)
		}
		slog.Info("linked oidc subject", "id", linked.ID)
		return linked, nil
	case !errors.Is(err, sql.ErrNoRows):
		return models.User{}, fmt.Errorf("looking up user by email: %w", err)
	}

	created, err := service.userRepo.Create(ctx, models.User{
		OIDCSubject:    subject,
		Email:          email,
		Name:           name,
		HapticsEnabled: true,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("provisioned new user", "id", created.ID, "name", created.Name)
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
