package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Bootstrap creates the system tables and seeds the default admin user. It is
// re-runnable: existing tables and users are left alone.
func (s *Store) Bootstrap(ctx context.Context) error {
	jsonType := s.Dialect.JSONType()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS _users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    roles         TEXT NOT NULL DEFAULT '',
    active        BOOLEAN NOT NULL DEFAULT true,
    created_at    TIMESTAMP DEFAULT ` + s.Dialect.Now() + `
)`,
		`CREATE TABLE IF NOT EXISTS _rulesets (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    rule_count  INT NOT NULL DEFAULT 0,
    definition  ` + jsonType + ` NOT NULL,
    created_at  TIMESTAMP DEFAULT ` + s.Dialect.Now() + `
)`,
	}

	for _, ddl := range tables {
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create system table: %w", err)
		}
	}

	return s.seedAdmin(ctx)
}

// seedAdmin inserts the default admin account when no users exist yet.
func (s *Store) seedAdmin(ctx context.Context) error {
	var count int
	row := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM _users")
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	query := s.Dialect.Rebind(
		"INSERT INTO _users (id, email, password_hash, roles, active) VALUES (?, ?, ?, ?, ?)")
	if _, err := s.DB.ExecContext(ctx, query,
		uuid.New().String(), "admin@local", string(hash), "admin", true); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Println("Seeded default admin user (admin@local / admin)")
	return nil
}
