package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

func TestTokenStorage_SetAndGet(t *testing.T) {
	store := setupTestStore(t)
	tokens := store.TokenStorage()
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "accessToken", "a1", domain.AccessTokenRetention))
	require.NoError(t, tokens.Set(ctx, "refreshToken", "r1", domain.RefreshTokenRetention))

	got, err := tokens.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "a1", got)

	got, err = tokens.Get(ctx, "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "r1", got)
}

func TestTokenStorage_SetReplaces(t *testing.T) {
	store := setupTestStore(t)
	tokens := store.TokenStorage()
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "accessToken", "a1", time.Hour))
	require.NoError(t, tokens.Set(ctx, "accessToken", "a2", time.Hour))

	got, err := tokens.Get(ctx, "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "a2", got)
}

func TestTokenStorage_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.TokenStorage().Get(context.Background(), "accessToken")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokenStorage_SetEmptyKey(t *testing.T) {
	store := setupTestStore(t)

	err := store.TokenStorage().Set(context.Background(), "", "v", time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenStorage_RetentionExpiry(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	tokens := store.TokenStorage()
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "accessToken", "a1", domain.AccessTokenRetention))
	require.NoError(t, tokens.Set(ctx, "refreshToken", "r1", domain.RefreshTokenRetention))

	now = now.Add(8 * 24 * time.Hour)

	_, err := tokens.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := tokens.Get(ctx, "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "r1", got)

	var rows int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM session_tokens").Scan(&rows))
	assert.Equal(t, 1, rows, "expired row should be purged on read")
}

func TestTokenStorage_DeleteIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	tokens := store.TokenStorage()
	ctx := context.Background()

	require.NoError(t, tokens.Set(ctx, "accessToken", "a1", time.Hour))
	require.NoError(t, tokens.Delete(ctx, "accessToken"))
	require.NoError(t, tokens.Delete(ctx, "accessToken"))

	_, err := tokens.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokenStorage_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.TokenStorage().Set(ctx, "refreshToken", "r1", domain.RefreshTokenRetention))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.TokenStorage().Get(ctx, "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "r1", got)
}
