package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// tokenStorage implements driven.TokenStorage.
// Rows past their retention deadline read as absent and are removed lazily.
type tokenStorage struct {
	store *Store
}

var _ driven.TokenStorage = (*tokenStorage)(nil)

// Get returns the unexpired value stored under key.
func (s *tokenStorage) Get(ctx context.Context, key string) (string, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM session_tokens WHERE name = ?
	`, key)

	var value string
	var expiresAt int64
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("scanning token: %w", err)
	}

	if s.store.now().UnixMilli() >= expiresAt {
		if err := s.Delete(ctx, key); err != nil {
			return "", err
		}
		return "", domain.ErrNotFound
	}
	return value, nil
}

// Set stores or replaces value under key for the retention window.
func (s *tokenStorage) Set(ctx context.Context, key, value string, retention time.Duration) error {
	if key == "" {
		return fmt.Errorf("token name is required: %w", domain.ErrInvalidInput)
	}

	now := s.store.now()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_tokens (name, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, key, value, now.Add(retention).UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *tokenStorage) Delete(ctx context.Context, key string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM session_tokens WHERE name = ?", key)
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
