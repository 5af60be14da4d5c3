package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-delegation/internal/model"
)

// CreateUser inserts a new user account. Generates a UUID if ID is empty.
// Emails are stored lowercased so lookups are case-insensitive.
func (s *SQLiteStore) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return model.User{}, fmt.Errorf("user email must not be empty")
	}
	user.Email = email
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.DisplayName, user.Email, user.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a single user by canonical id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.QueryRowxContext(ctx,
		"SELECT id, display_name, email, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.DisplayName, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &user, nil
}

// FindUserIDByEmail returns the canonical id for the account with the
// given email, or "" when no such account exists. Absence is not an
// error.
func (s *SQLiteStore) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id,
		"SELECT id FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up user by email: %w", err)
	}
	return id, nil
}
