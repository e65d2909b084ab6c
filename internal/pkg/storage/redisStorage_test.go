package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr(), DialTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewRedisStorage(client, "cardforge:")

	require.NoError(t, s.Put(ctx, "cards/a.json", []byte(`{"id":"a"}`)))
	stored, err := mr.Get("cardforge:cards/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, stored, "keys carry the storage prefix")

	data, err := s.Get(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(data))

	ok, err := s.Exists(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "cards/a.json"))
	_, err = s.Get(ctx, "cards/a.json")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = s.Exists(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "cards/a.json"), "deleting a missing key is a no-op")
}

func TestRedisStorageList(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	s := NewRedisStorage(client, "cardforge:")
	other := NewRedisStorage(client, "other:")

	for _, key := range []string{"cards/b.json", "cards/a.json", "original/x", "metadata/assets/x.json"} {
		require.NoError(t, s.Put(ctx, key, []byte("1")))
	}
	require.NoError(t, other.Put(ctx, "cards/z.json", []byte("1")))

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{name: "cards", prefix: "cards/", want: []string{"cards/a.json", "cards/b.json"}},
		{name: "all", prefix: "", want: []string{"cards/a.json", "cards/b.json", "metadata/assets/x.json", "original/x"}},
		{name: "none", prefix: "thumbnails/", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := s.List(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestRedisStorageRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	s := NewRedisStorage(client, "cardforge:")

	for _, key := range []string{"", "../escape"} {
		assert.Error(t, s.Put(ctx, key, []byte("x")), key)
		_, err := s.Get(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestNewRedisClientPingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
