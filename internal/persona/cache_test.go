// internal/persona/cache_test.go
package persona

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"understander/internal/common/config"
	"understander/internal/common/database"
	"understander/internal/common/logger"
	"understander/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewCache(client, 10*time.Minute, logger.NewTestLogger(t)), mr
}

// ==========================
// Cache Tests
// ==========================

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.GetProfile(ctx, "s1", 4)
	assert.False(t, ok)

	profile := BuildProfile([]models.Message{
		userMsg("My income is 120k"),
		userMsg("I'm fairly conservative"),
	})
	cache.SetProfile(ctx, "s1", 4, profile)

	got, ok := cache.GetProfile(ctx, "s1", 4)
	require.True(t, ok)
	assert.Equal(t, profile, got)

	// a different message count is a different key
	_, ok = cache.GetProfile(ctx, "s1", 6)
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set("persona:profile:s1:2", "{not json"))

	_, ok := cache.GetProfile(context.Background(), "s1", 2)
	assert.False(t, ok)
}

func TestCache_NilCacheDisabled(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	_, ok := cache.GetProfile(ctx, "s1", 1)
	assert.False(t, ok)
	cache.SetProfile(ctx, "s1", 1, models.FinancialProfile{})
}

// ==========================
// Service Tests
// ==========================

func TestService_ProfileUsesCache(t *testing.T) {
	cache, mr := newTestCache(t)
	svc := NewService(cache)
	ctx := context.Background()

	messages := []models.Message{
		userMsg("My income is 120k"),
		userMsg("My expenses are 4k"),
	}

	first := svc.Profile(ctx, "s1", messages)
	assert.True(t, mr.Exists("persona:profile:s1:2"))

	second := svc.Profile(ctx, "s1", messages)
	assert.Equal(t, first, second)
	assert.InDelta(t, 120000, second.FinancialInfo.AnnualIncome, 1e-9)
}

func TestService_WorksWithoutCache(t *testing.T) {
	svc := NewService(nil)

	vector := svc.Vector(context.Background(), "s1", []models.Message{
		userMsg("My income is 250k"),
	})
	assert.InDelta(t, 0.5, vector[models.VecIncome], 1e-9)
}
