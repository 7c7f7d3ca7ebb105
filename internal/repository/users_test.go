package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/testutil"
)

func TestUserRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.User{
		Email:          "anna@example.com",
		Name:           "Anna",
		HapticsEnabled: true,
		PasswordHash:   "hash",
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if created.TokenKey == "" {
		t.Fatal("expected a generated token key")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding user: %v", err)
	}
	if found.Name != "Anna" {
		t.Errorf("expected name 'Anna', got '%s'", found.Name)
	}
	if found.Theme != models.ThemeSystem {
		t.Errorf("expected default theme system, got '%s'", found.Theme)
	}
	if !found.HapticsEnabled {
		t.Error("expected haptics enabled")
	}
	if found.OIDCSubject != "" {
		t.Errorf("expected empty oidc subject, got '%s'", found.OIDCSubject)
	}
	if !found.Created.Equal(created.Created) {
		t.Errorf("expected created %v, got %v", created.Created, found.Created)
	}
}

func TestUserRepository_FindByEmail_IgnoresCase(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "ben@example.com")

	found, err := repo.FindByEmail(ctx, "Ben@Example.com")
	if err != nil {
		t.Fatalf("finding user by email: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected id %s, got %s", created.ID, found.ID)
	}

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserRepository_FindByOIDCSubject(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	repo.Create(ctx, models.User{Email: "a@example.com", OIDCSubject: "unique-subject"})
	repo.Create(ctx, models.User{Email: "b@example.com"})
	repo.Create(ctx, models.User{Email: "c@example.com"})

	found, err := repo.FindByOIDCSubject(ctx, "unique-subject")
	if err != nil {
		t.Fatalf("finding user by subject: %v", err)
	}
	if found.Email != "a@example.com" {
		t.Errorf("expected a@example.com, got %s", found.Email)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "anna@example.com")
	user.Theme = models.ThemeDark
	user.HapticsEnabled = false
	user.TokenKey = "rotated"

	if _, err := repo.Update(ctx, user); err != nil {
		t.Fatalf("updating user: %v", err)
	}

	found, _ := repo.FindByID(ctx, user.ID)
	if found.Theme != models.ThemeDark {
		t.Errorf("expected theme dark, got %s", found.Theme)
	}
	if found.TokenKey != "rotated" {
		t.Errorf("expected rotated token key, got %s", found.TokenKey)
	}

	_, err := repo.Update(ctx, models.User{ID: "missing", Email: "x@example.com"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	count, _ := repo.Count(ctx)
	if count != 0 {
		t.Errorf("expected 0 users, got %d", count)
	}

	testutil.CreateUser(t, db, "a@example.com")
	testutil.CreateUser(t, db, "b@example.com")

	count, _ = repo.Count(ctx)
	if count != 2 {
		t.Errorf("expected 2 users, got %d", count)
	}
}
