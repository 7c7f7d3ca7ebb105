package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/database"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/repository"
)

func NewTestDatabase(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateUser inserts a user with the given email and no password.
func CreateUser(t *testing.T, db *sql.DB, email string) models.User {
	t.Helper()

	user, err := repository.NewUserRepository(db).Create(context.Background(), models.User{
		Email: email,
		Name:  email,
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}
