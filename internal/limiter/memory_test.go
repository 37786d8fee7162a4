package limiter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_BlocksAfterMaxFails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(Config{Window: time.Minute, MaxFails: 3, BlockFor: 5 * time.Minute})
	m.now = func() time.Time { return now }
	ip := HashIP("10.0.0.1")

	for i := 0; i < 2; i++ {
		blocked, _, err := m.Failure(ctx, "bob", ip)
		require.NoError(t, err)
		require.False(t, blocked, "failure %d", i+1)
	}
	blocked, wait, err := m.Failure(ctx, "bob", ip)
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, 5*time.Minute, wait)

	ok, wait, err := m.Allow(ctx, "bob", ip)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 5*time.Minute, wait)

	// other pairs are unaffected
	ok, _, _ = m.Allow(ctx, "bob", HashIP("10.0.0.2"))
	require.True(t, ok)
	ok, _, _ = m.Allow(ctx, "carol", ip)
	require.True(t, ok)

	now = now.Add(5*time.Minute + time.Second)
	ok, _, err = m.Allow(ctx, "bob", ip)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemory_SuccessResets(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Config{Window: time.Hour, MaxFails: 2, BlockFor: time.Hour})
	ip := HashIP("10.0.0.1")

	blocked, _, _ := m.Failure(ctx, "bob", ip)
	require.False(t, blocked)
	require.NoError(t, m.Success(ctx, "bob", ip))

	blocked, _, _ = m.Failure(ctx, "bob", ip)
	require.False(t, blocked, "counter must restart after success")
	blocked, _, _ = m.Failure(ctx, "bob", ip)
	require.True(t, blocked)
}

func TestMemory_ImplementsLimiter(t *testing.T) {
	var _ Limiter = NewMemory(DefaultConfig)
	var _ Limiter = (*PG)(nil)
}

func TestMemory_SweepsIdlePairs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(Config{Window: time.Minute, MaxFails: 3, BlockFor: 5 * time.Minute})
	m.now = func() time.Time { return now }
	ip := HashIP("10.0.0.1")

	for i := 0; i < 100; i++ {
		_, _, err := m.Failure(ctx, fmt.Sprintf("user-%d", i), ip)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, _, _ = m.Failure(ctx, "bob", ip)
	}
	require.Len(t, m.pairs, 101)

	// buckets refilled, bob still blocked
	now = now.Add(2 * time.Minute)
	_, _, _ = m.Failure(ctx, "trigger", ip)
	require.Len(t, m.pairs, 2)
	ok, _, _ := m.Allow(ctx, "bob", ip)
	require.False(t, ok)

	// a pair with a fresh failure survives a sweep
	now = now.Add(time.Minute)
	_, _, _ = m.Failure(ctx, "carol", ip)
	require.Contains(t, m.pairs, pairKey("carol", ip))

	now = now.Add(10 * time.Minute)
	_, _, _ = m.Failure(ctx, "last", ip)
	require.Len(t, m.pairs, 1)
	require.Contains(t, m.pairs, pairKey("last", ip))
}
