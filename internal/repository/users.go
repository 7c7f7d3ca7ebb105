package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByOIDCSubject(ctx context.Context, subject string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Count(ctx context.Context) (int, error)
}

type SQLiteUserRepository struct {
	database *sql.DB
}

func NewUserRepository(database *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

const userColumns = "id, email, name, theme, haptics_enabled, password_hash, oidc_subject, token_key, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Theme, &user.HapticsEnabled,
		&user.PasswordHash, optionalString{&user.OIDCSubject}, &user.TokenKey,
		timestamp{&user.Created}, timestamp{&user.Updated},
	)
	return user, err
}

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id,
	))
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", email,
	))
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByOIDCSubject(ctx context.Context, subject string) (models.User, error) {
	user, err := scanUser(repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE oidc_subject = ?", subject,
	))
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by oidc subject: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.TokenKey == "" {
		user.TokenKey = uuid.New().String()
	}
	if user.Theme == "" {
		user.Theme = models.ThemeSystem
	}
	now := time.Now().UTC()
	user.Created = now
	user.Updated = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.Theme, user.HapticsEnabled,
		user.PasswordHash, nullableString(user.OIDCSubject), user.TokenKey,
		formatTimestamp(user.Created), formatTimestamp(user.Updated),
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Update writes every mutable column, including the credentials.
func (repository *SQLiteUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	user.Updated = time.Now().UTC()
	result, err := repository.database.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, theme = ?, haptics_enabled = ?, password_hash = ?,
			oidc_subject = ?, token_key = ?, updated_at = ? WHERE id = ?`,
		user.Email, user.Name, user.Theme, user.HapticsEnabled, user.PasswordHash,
		nullableString(user.OIDCSubject), user.TokenKey, formatTimestamp(user.Updated), user.ID,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("updating user: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.User{}, fmt.Errorf("updating user: %w", sql.ErrNoRows)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
