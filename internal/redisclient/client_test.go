package redisclient

import (
	"context"
	"testing"
	"time"

	"influencer-dashboard/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T, ttl time.Duration) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestClientSelectionRoundTrip(t *testing.T) {
	client, mr := setupRedis(t, time.Hour)
	ctx := context.Background()

	_, found, err := client.GetSelection(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	sel := models.Selection{Platforms: []string{"IG"}, Brands: []string{}}
	require.NoError(t, client.SaveSelection(ctx, "s1", sel))
	assert.True(t, mr.Exists("selection:s1"))
	assert.Equal(t, time.Hour, mr.TTL("selection:s1"))

	got, found, err := client.GetSelection(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"IG"}, got.Platforms)
	assert.Nil(t, got.Campaigns, "unset dimension stays all")
	assert.NotNil(t, got.Brands, "empty dimension stays none")
	assert.Empty(t, got.Brands)

	require.NoError(t, client.DeleteSelection(ctx, "s1"))
	_, found, err = client.GetSelection(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientSelectionExpires(t *testing.T) {
	client, mr := setupRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.SaveSelection(ctx, "s1", models.Selection{Campaigns: []string{"Summer"}}))
	mr.FastForward(2 * time.Minute)

	_, found, err := client.GetSelection(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClientCorruptSelection(t *testing.T) {
	client, mr := setupRedis(t, time.Minute)
	require.NoError(t, mr.Set("selection:bad", "{not json"))

	_, _, err := client.GetSelection(context.Background(), "bad")
	assert.Error(t, err)
}

func TestClientUnavailable(t *testing.T) {
	client, mr := setupRedis(t, time.Minute)
	mr.Close()

	err := client.SaveSelection(context.Background(), "s1", models.Selection{})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	sel := models.Selection{Platforms: []string{"YT"}}
	require.NoError(t, store.SaveSelection(ctx, "s1", sel))
	sel.Platforms[0] = "mutated"

	got, found, err := store.GetSelection(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"YT"}, got.Platforms)
	assert.Nil(t, got.Brands)

	now = now.Add(2 * time.Minute)
	_, found, err = store.GetSelection(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SaveSelection(ctx, "s2", sel))
	require.NoError(t, store.DeleteSelection(ctx, "s2"))
	_, found, _ = store.GetSelection(ctx, "s2")
	assert.False(t, found)
}
