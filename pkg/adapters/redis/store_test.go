package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/redis"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Minute),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-ttl", domain.NewConversation("s-ttl", now)))
	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-ttl"}, sessions)

	mr.FastForward(2 * time.Minute)
	now = now.Add(2 * time.Minute)

	_, err = store.Load(ctx, "s-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions, "expired entries are pruned from the index")
}

func TestRedisStore_SaveRefreshesExpiry(t *testing.T) {
	_, client := newClient(t)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Minute),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	conv := domain.NewConversation("s-1", now)
	require.NoError(t, store.Save(ctx, "s-1", conv))
	now = now.Add(50 * time.Second)
	require.NoError(t, store.Save(ctx, "s-1", conv))
	now = now.Add(50 * time.Second)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-session", domain.NewConversation("my-session", time.Now())))

	assert.True(t, mr.Exists("custom:app:my-session"), "conversation key carries the prefix")
	assert.True(t, mr.Exists("custom:app:index"), "index key carries the prefix")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), "abc", domain.NewConversation("abc", time.Now())))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"abc"))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNewFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := redis.NewFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))

	_, err = redis.NewFromURL("http://nope")
	assert.Error(t, err)
}
