package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// User is a row in _users. Roles are stored comma-joined to stay portable
// across both dialects.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	Active       bool
}

// GetUserByEmail returns the active user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := s.Dialect.Rebind(
		"SELECT id, email, password_hash, roles, active FROM _users WHERE email = ? AND active = true")
	var u User
	var roles string
	err := s.DB.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &roles, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if roles != "" {
		u.Roles = strings.Split(roles, ",")
	}
	return &u, nil
}

// CreateUser inserts a new user with a pre-hashed password.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	query := s.Dialect.Rebind(
		"INSERT INTO _users (id, email, password_hash, roles, active) VALUES (?, ?, ?, ?, ?)")
	if _, err := s.DB.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, strings.Join(u.Roles, ","), u.Active); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
