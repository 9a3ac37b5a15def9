package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/admindesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/admindesk/internal/core/domain"
)

func newTestTokenStore(t *testing.T) (*TokenStore, *fakeClock, *recordingScheduler) {
	t.Helper()
	clock := newFakeClock()
	store := NewTokenStore(memory.NewTokenStorage(), fakeCodec{}, clock)
	sched := &recordingScheduler{}
	store.scheduler = sched
	return store, clock, sched
}

func TestTokenStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestTokenStore(t)

	access := tokenFor("a1", clock.Now().Add(15*time.Minute))
	refresh := tokenFor("r1", clock.Now().Add(24*time.Hour))
	require.NoError(t, store.Set(ctx, domain.TokenPair{AccessToken: access, RefreshToken: refresh}))

	got, ok := store.Get(ctx, domain.TokenAccess)
	assert.True(t, ok)
	assert.Equal(t, access, got)

	got, ok = store.Get(ctx, domain.TokenRefresh)
	assert.True(t, ok)
	assert.Equal(t, refresh, got)
}

func TestTokenStore_Set_NewPairReplacesOld(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestTokenStore(t)

	require.NoError(t, store.Set(ctx, domain.TokenPair{AccessToken: "old.1", RefreshToken: "oldr.1"}))
	require.NoError(t, store.Set(ctx, domain.TokenPair{AccessToken: "new.2", RefreshToken: "newr.2"}))

	access, _ := store.Get(ctx, domain.TokenAccess)
	refresh, _ := store.Get(ctx, domain.TokenRefresh)
	assert.Equal(t, "new.2", access)
	assert.Equal(t, "newr.2", refresh)
}

func TestTokenStore_Set_KeepsRefreshWhenNotRotated(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestTokenStore(t)

	require.NoError(t, store.Set(ctx, domain.TokenPair{AccessToken: "a.1", RefreshToken: "r.1"}))
	require.NoError(t, store.Set(ctx, domain.TokenPair{AccessToken: "a.2"}))

	refresh, ok := store.Get(ctx, domain.TokenRefresh)
	assert.True(t, ok)
	assert.Equal(t, "r.1", refresh)
}

func TestTokenStore_Set_EmptyAccessToken(t *testing.T) {
	store, _, _ := newTestTokenStore(t)

	err := store.Set(context.Background(), domain.TokenPair{RefreshToken: "r.1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTokenStore_Set_ArmsSchedulerFromExp(t *testing.T) {
	store, clock, sched := newTestTokenStore(t)
	exp := clock.Now().Add(15 * time.Minute).Truncate(time.Second)

	require.NoError(t, store.Set(context.Background(),
		domain.TokenPair{AccessToken: tokenFor("a", exp), RefreshToken: "r.1"}))

	require.Len(t, sched.armed, 1)
	assert.True(t, exp.Equal(sched.armed[0]))
	assert.Equal(t, 0, sched.disarms)
}

func TestTokenStore_Set_UndecodableTokenLeavesSchedulerIdle(t *testing.T) {
	store, _, sched := newTestTokenStore(t)

	require.NoError(t, store.Set(context.Background(),
		domain.TokenPair{AccessToken: "not-a-jwt", RefreshToken: "r.1"}))

	assert.Empty(t, sched.armed)
	assert.Equal(t, 1, sched.disarms)
	assert.Equal(t, domain.SchedulerIdle, sched.State())
}

func TestTokenStore_Clear_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestTokenStore(t)
	require.NoError(t, store.Set(ctx, domain.TokenPair{
		AccessToken:  tokenFor("a", clock.Now().Add(time.Hour)),
		RefreshToken: tokenFor("r", clock.Now().Add(24*time.Hour)),
	}))
	require.True(t, store.IsAuthenticated(ctx))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, store.IsAuthenticated(ctx))
	_, accessOK := store.Get(ctx, domain.TokenAccess)
	_, refreshOK := store.Get(ctx, domain.TokenRefresh)
	assert.False(t, accessOK)
	assert.False(t, refreshOK)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, store.IsAuthenticated(ctx))
	assert.Equal(t, domain.SessionUnauthenticated, store.State(ctx))
}

func TestTokenStore_IsExpired(t *testing.T) {
	store, clock, _ := newTestTokenStore(t)
	now := clock.Now()

	tests := []struct {
		name     string
		token    string
		buffer   time.Duration
		expected bool
	}{
		{"undecodable", "not-a-jwt", 0, true},
		{"far future", tokenFor("a", now.Add(time.Hour)), 2 * time.Minute, false},
		{"inside buffer", tokenFor("a", now.Add(90*time.Second)), 2 * time.Minute, true},
		{"exactly at buffer edge", tokenFor("a", now.Add(2*time.Minute)), 2 * time.Minute, true},
		{"zero buffer not yet expired", tokenFor("a", now.Add(90*time.Second)), 0, false},
		{"already expired", tokenFor("a", now.Add(-time.Minute)), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.IsExpired(tt.token, tt.buffer))
		})
	}
}

func TestTokenStore_IsAuthenticated(t *testing.T) {
	now := testNow
	valid := tokenFor("a", now.Add(time.Hour))
	expiredAccess := tokenFor("a", now.Add(-time.Minute))
	validRefresh := tokenFor("r", now.Add(24*time.Hour))
	expiredRefresh := tokenFor("r", now.Add(-time.Hour))

	tests := []struct {
		name     string
		pair     domain.TokenPair
		strict   bool
		expected bool
	}{
		{"both valid", domain.TokenPair{AccessToken: valid, RefreshToken: validRefresh}, false, true},
		{"access expired", domain.TokenPair{AccessToken: expiredAccess, RefreshToken: validRefresh}, false, false},
		{"missing refresh", domain.TokenPair{AccessToken: valid}, false, false},
		{"opaque refresh", domain.TokenPair{AccessToken: valid, RefreshToken: "opaque"}, true, true},
		{"strict with valid refresh", domain.TokenPair{AccessToken: valid, RefreshToken: validRefresh}, true, true},
		{"strict with expired refresh", domain.TokenPair{AccessToken: valid, RefreshToken: expiredRefresh}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, _ := newTestTokenStore(t)
			store.SetStrictRefreshExpiry(tt.strict)
			require.NoError(t, store.Set(context.Background(), tt.pair))
			assert.Equal(t, tt.expected, store.IsAuthenticated(context.Background()))
		})
	}
}

// An expired refresh token next to a valid access token is reported as
// authenticated unless strict refresh expiry is enabled. This is intentional
// and kept behind the flag.
func TestTokenStore_IsAuthenticated_IgnoresRefreshExpiryByDefault(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestTokenStore(t)
	require.NoError(t, store.Set(ctx, domain.TokenPair{
		AccessToken:  tokenFor("a", clock.Now().Add(time.Hour)),
		RefreshToken: tokenFor("r", clock.Now().Add(-time.Hour)),
	}))

	assert.True(t, store.IsAuthenticated(ctx))

	store.SetStrictRefreshExpiry(true)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestTokenStore_State(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestTokenStore(t)
	assert.Equal(t, domain.SessionUnauthenticated, store.State(ctx))

	require.NoError(t, store.Set(ctx, domain.TokenPair{
		AccessToken:  tokenFor("a", clock.Now().Add(10*time.Minute)),
		RefreshToken: "r.1",
	}))
	assert.Equal(t, domain.SessionAuthenticated, store.State(ctx))

	clock.Advance(9 * time.Minute)
	assert.Equal(t, domain.SessionExpiring, store.State(ctx))

	clock.Advance(5 * time.Minute)
	assert.Equal(t, domain.SessionExpiring, store.State(ctx))
}
