package services

import (
	"context"
	"errors"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/config"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
)

func newPasswordAuthService(t *testing.T) (*AuthService, models.User) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	service, err := NewAuthService(context.Background(), config.Config{SessionSecret: "test-secret"}, userRepo)
	if err != nil {
		t.Fatalf("creating auth service: %v", err)
	}
	user, err := service.EnsureUser(context.Background(), "Anna@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("bootstrapping user: %v", err)
	}
	return service, user
}

func TestEnsureUser_IdempotentOnSecondCall(t *testing.T) {
	service, first := newPasswordAuthService(t)

	second, err := service.EnsureUser(context.Background(), "anna@example.com", "other-password")
	if err != nil {
		t.Fatalf("second EnsureUser: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same user ID, got %q and %q", first.ID, second.ID)
	}
	if first.Email != "anna@example.com" {
		t.Errorf("expected normalized email, got %q", first.Email)
	}
}

func TestEnsureUser_RejectsShortPassword(t *testing.T) {
	service, _ := newPasswordAuthService(t)

	if _, err := service.EnsureUser(context.Background(), "ben@example.com", "short"); err == nil {
		t.Fatal("expected error for short bootstrap password")
	}
}

func TestLogin(t *testing.T) {
	service, user := newPasswordAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		identity string
		password string
		wantErr  error
	}{
		{name: "valid", identity: " ANNA@example.com", password: "correct-horse"},
		{name: "wrong password", identity: "anna@example.com", password: "battery", wantErr: ErrInvalidCredentials},
		{name: "unknown user", identity: "nobody@example.com", password: "correct-horse", wantErr: ErrInvalidCredentials},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := service.Login(ctx, test.identity, test.password)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected error %v, got %v", test.wantErr, err)
			}
			if test.wantErr == nil && got.ID != user.ID {
				t.Errorf("expected user %s, got %s", user.ID, got.ID)
			}
		})
	}
}

func TestIssueAndAuthenticateToken(t *testing.T) {
	service, user := newPasswordAuthService(t)
	ctx := context.Background()

	token, err := service.IssueToken(user)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	got, err := service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticating: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	for _, bad := range []string{"", "garbage", token + "x"} {
		if _, err := service.Authenticate(ctx, bad); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized for %q, got %v", bad, err)
		}
	}
}

func TestUpdateUser_Preferences(t *testing.T) {
	service, user := newPasswordAuthService(t)
	theme := models.ThemeDark
	haptics := false

	updated, err := service.UpdateUser(context.Background(), user, UserUpdate{Theme: &theme, HapticsEnabled: &haptics})
	if err != nil {
		t.Fatalf("updating preferences: %v", err)
	}
	if updated.Theme != models.ThemeDark || updated.HapticsEnabled {
		t.Errorf("expected dark theme without haptics, got %s/%v", updated.Theme, updated.HapticsEnabled)
	}
	if updated.TokenKey != user.TokenKey {
		t.Error("expected token key to survive a preference change")
	}

	bogus := models.Theme("neon")
	_, err = service.UpdateUser(context.Background(), user, UserUpdate{Theme: &bogus})
	var validationError *ValidationError
	if !errors.As(err, &validationError) || validationError.Fields[0].Field != "theme" {
		t.Errorf("expected theme validation error, got %v", err)
	}
}

func TestUpdateUser_PasswordChange(t *testing.T) {
	service, user := newPasswordAuthService(t)
	ctx := context.Background()

	oldToken, _ := service.IssueToken(user)

	tests := []struct {
		name       string
		update     UserUpdate
		wantFields []string
	}{
		{
			name:       "wrong old password",
			update:     UserUpdate{OldPassword: "nope", Password: "new-password", PasswordConfirm: "new-password"},
			wantFields: []string{"oldPassword"},
		},
		{
			name:       "too short and mismatched",
			update:     UserUpdate{OldPassword: "correct-horse", Password: "short", PasswordConfirm: "shorter"},
			wantFields: []string{"password", "passwordConfirm"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := service.UpdateUser(ctx, user, test.update)
			var validationError *ValidationError
			if !errors.As(err, &validationError) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			var fields []string
			for _, field := range validationError.Fields {
				fields = append(fields, field.Field)
			}
			if len(fields) != len(test.wantFields) {
				t.Fatalf("expected fields %v, got %v", test.wantFields, fields)
			}
			for i := range fields {
				if fields[i] != test.wantFields[i] {
					t.Errorf("expected fields %v, got %v", test.wantFields, fields)
				}
			}
		})
	}

	updated, err := service.UpdateUser(ctx, user, UserUpdate{OldPassword: "correct-horse", Password: "new-password", PasswordConfirm: "new-password"})
	if err != nil {
		t.Fatalf("changing password: %v", err)
	}
	if _, err := service.Authenticate(ctx, oldToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected old token to be revoked, got %v", err)
	}
	if _, err := service.Login(ctx, updated.Email, "new-password"); err != nil {
		t.Errorf("expected login with new password, got %v", err)
	}
}

func TestOIDCNotConfigured(t *testing.T) {
	service, _ := newPasswordAuthService(t)

	if service.OIDCConfigured() {
		t.Error("expected OIDC to be unconfigured")
	}
	if service.LoginURL("state") != "" {
		t.Error("expected empty login URL")
	}
	if _, err := service.HandleCallback(context.Background(), "code"); err == nil {
		t.Error("expected callback to fail without OIDC")
	}
}

func TestProvisionUser_LinksByEmail(t *testing.T) {
	service, user := newPasswordAuthService(t)
	ctx := context.Background()

	linked, err := service.provisionUser(ctx, "subject-1", "anna@example.com", "Anna")
	if err != nil {
		t.Fatalf("provisioning: %v", err)
	}
	if linked.ID != user.ID {
		t.Errorf("expected existing user to be linked, got %s", linked.ID)
	}

	again, err := service.provisionUser(ctx, "subject-1", "anna@example.com", "Anna")
	if err != nil {
		t.Fatalf("provisioning again: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("expected lookup by subject, got %s", again.ID)
	}

	fresh, err := service.provisionUser(ctx, "subject-2", "ben@example.com", "Ben")
	if err != nil {
		t.Fatalf("provisioning new user: %v", err)
	}
	if fresh.ID == user.ID || fresh.Name != "Ben" {
		t.Errorf("expected a new user named Ben, got %+v", fresh)
	}
}
