package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.Put(ctx, "cards/a.json", []byte(`{"id":"a"}`)))

	data, err := s.Get(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, string(data))

	ok, err := s.Exists(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Put(ctx, "cards/a.json", []byte("v2")))
	data, err = s.Get(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, s.Delete(ctx, "cards/a.json"))
	_, err = s.Get(ctx, "cards/a.json")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = s.Exists(ctx, "cards/a.json")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "cards/a.json"), "deleting a missing key is a no-op")
}

func TestFileStorageList(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(t.TempDir())

	for _, key := range []string{"cards/b.json", "cards/a.json", "original/x", "metadata/assets/x.json"} {
		require.NoError(t, s.Put(ctx, key, []byte("1")))
	}

	keys, err := s.List(ctx, "cards/")
	require.NoError(t, err)
	assert.Equal(t, []string{"cards/a.json", "cards/b.json"}, keys)

	keys, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 4)
}

func TestFileStorageListMissingRoot(t *testing.T) {
	s := NewFileStorage(t.TempDir() + "/does-not-exist")
	keys, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(t.TempDir())

	for _, key := range []string{"", "../escape", "cards/../../x", "/"} {
		assert.Error(t, s.Put(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestFileStorageHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStorage(t.TempDir())

	assert.ErrorIs(t, s.Put(ctx, "k", []byte("v")), context.Canceled)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
