package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/donation-gateway/internal/config"
	"github.com/magabrotheeeer/donation-gateway/internal/storage/memstore"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(store *memstore.Store, requests int, window time.Duration, failOpen bool) *Service {
	return New(store, newNoopLogger(), config.RateLimit{
		Requests: requests,
		Window:   window,
		FailOpen: failOpen,
	})
}

func TestAllow_BurstWithinWindow(t *testing.T) {
	store := memstore.New()
	svc := newService(store, 10, time.Minute, true)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	ctx := context.Background()

	// первые 10 запросов проходят
	for i := range 10 {
		assert.True(t, svc.Allow(ctx, "u1"), "request %d", i+1)
	}
	// 11-й отклоняется
	assert.False(t, svc.Allow(ctx, "u1"))
	// и отказ не мутирует счётчик
	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 10, user.AIRequestCount)
}

func TestAllow_WindowRollsOver(t *testing.T) {
	store := memstore.New()
	svc := newService(store, 10, time.Minute, true)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }
	ctx := context.Background()

	for range 10 {
		require.True(t, svc.Allow(ctx, "u1"))
	}
	require.False(t, svc.Allow(ctx, "u1"))

	// ровно на границе окна (now - windowStart == window) отказ сохраняется
	current = base.Add(time.Minute)
	assert.False(t, svc.Allow(ctx, "u1"))

	// строго за границей окна счётчик сбрасывается
	current = base.Add(time.Minute + time.Nanosecond)
	assert.True(t, svc.Allow(ctx, "u1"))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.AIRequestCount)
	assert.Equal(t, current, user.LastAIRequestTime)
}

func TestAllow_WindowStartUnchangedOnIncrement(t *testing.T) {
	store := memstore.New()
	svc := newService(store, 10, time.Minute, true)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	svc.now = func() time.Time { return current }
	ctx := context.Background()

	require.True(t, svc.Allow(ctx, "u1"))
	current = base.Add(30 * time.Second)
	require.True(t, svc.Allow(ctx, "u1"))

	// окно считается от первого запроса, а не от последнего
	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, base, user.LastAIRequestTime)
	assert.Equal(t, 2, user.AIRequestCount)
}

func TestAllow_ConcurrentRequestsDoNotLoseIncrements(t *testing.T) {
	store := memstore.New()
	svc := newService(store, 100, time.Minute, true)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, svc.Allow(ctx, "u1"))
		}()
	}
	wg.Wait()

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, workers, user.AIRequestCount)
}

func TestAllow_IndependentUsers(t *testing.T) {
	store := memstore.New()
	svc := newService(store, 1, time.Minute, true)
	ctx := context.Background()

	assert.True(t, svc.Allow(ctx, "u1"))
	assert.False(t, svc.Allow(ctx, "u1"))
	assert.True(t, svc.Allow(ctx, "u2"))
}

func TestAllow_FailOpenPolicy(t *testing.T) {
	store := memstore.New()
	store.FailWith = errors.New("store unavailable")
	ctx := context.Background()

	open := newService(store, 10, time.Minute, true)
	assert.True(t, open.Allow(ctx, "u1"))

	closed := newService(store, 10, time.Minute, false)
	assert.False(t, closed.Allow(ctx, "u1"))
}
