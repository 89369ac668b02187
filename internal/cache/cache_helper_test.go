package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "user:"), server
}

func TestCacheHelper_SetAndGet(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestCache(t)

	profile := cachedProfile{ID: "t1", Name: "Nguyen Van A"}
	require.NoError(t, helper.Set(ctx, "id:t1", profile, 15*time.Minute))

	assert.True(t, server.Exists("user:id:t1"))

	var got cachedProfile
	require.NoError(t, helper.Get(ctx, "id:t1", &got))
	assert.Equal(t, profile, got)
}

func TestCacheHelper_GetMiss(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t)

	var got cachedProfile
	err := helper.Get(ctx, "id:missing", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_Expiry(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestCache(t)

	require.NoError(t, helper.Set(ctx, "id:t1", cachedProfile{ID: "t1"}, time.Minute))
	server.FastForward(2 * time.Minute)

	var got cachedProfile
	err := helper.Get(ctx, "id:t1", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_Delete(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestCache(t)

	require.NoError(t, helper.Set(ctx, "id:t1", cachedProfile{ID: "t1"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "id:t2", cachedProfile{ID: "t2"}, time.Minute))

	require.NoError(t, helper.Delete(ctx, "id:t1", "id:t2"))

	assert.False(t, server.Exists("user:id:t1"))
	assert.False(t, server.Exists("user:id:t2"))
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "user:")

	assert.NoError(t, helper.Set(ctx, "id:t1", cachedProfile{}, time.Minute))
	assert.NoError(t, helper.Delete(ctx, "id:t1"))

	var got cachedProfile
	assert.ErrorIs(t, helper.Get(ctx, "id:t1", &got), ErrCacheNotAvailable)
}

func TestCacheManager(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)

	require.NoError(t, manager.HealthCheck(ctx))

	require.NoError(t, manager.User.Set(ctx, "id:t1", cachedProfile{ID: "t1"}, time.Minute))
	require.NoError(t, manager.InvalidateUser(ctx, "t1"))
	assert.False(t, server.Exists("user:id:t1"))
}

func TestCacheManager_NilClient(t *testing.T) {
	manager := NewCacheManager(nil)

	assert.ErrorIs(t, manager.HealthCheck(context.Background()), ErrCacheNotAvailable)
}
