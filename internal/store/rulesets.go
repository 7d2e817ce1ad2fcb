package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RuleSet is one persisted inference run.
type RuleSet struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	RuleCount  int             `json:"rule_count"`
	Definition json.RawMessage `json:"definition,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SaveRuleSet persists a run's full result JSON under its run id.
func (s *Store) SaveRuleSet(ctx context.Context, id, name string, ruleCount int, definition []byte) error {
	query := s.Dialect.Rebind(
		"INSERT INTO _rulesets (id, name, rule_count, definition) VALUES (?, ?, ?, ?)")
	if _, err := s.DB.ExecContext(ctx, query, id, name, ruleCount, string(definition)); err != nil {
		return fmt.Errorf("insert ruleset: %w", err)
	}
	return nil
}

// GetRuleSet returns one stored rule set including its definition.
func (s *Store) GetRuleSet(ctx context.Context, id string) (*RuleSet, error) {
	query := s.Dialect.Rebind(
		"SELECT id, name, rule_count, definition, created_at FROM _rulesets WHERE id = ?")
	var rs RuleSet
	var def string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&rs.ID, &rs.Name, &rs.RuleCount, &def, &rs.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ruleset: %w", err)
	}
	rs.Definition = json.RawMessage(def)
	return &rs, nil
}

// ListRuleSets returns summaries of all stored runs, newest first, without
// definitions.
func (s *Store) ListRuleSets(ctx context.Context) ([]*RuleSet, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, name, rule_count, created_at FROM _rulesets ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	defer rows.Close()

	var out []*RuleSet
	for rows.Next() {
		var rs RuleSet
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.RuleCount, &rs.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ruleset row: %w", err)
		}
		out = append(out, &rs)
	}
	return out, rows.Err()
}
