package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
)

func newStore(t *testing.T) storage.ObjectStore {
	t.Helper()
	return storage.NewFileStorage(t.TempDir())
}

func TestAssetRepository(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	repo := NewAssetRepository(store)

	asset := &entity.ImageAsset{
		ID:        "a1",
		Name:      "photo.png",
		MimeType:  "image/png",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		PixelData: []byte{1, 2, 3},
	}
	require.NoError(t, repo.Save(ctx, asset))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got.PixelData)
	assert.Equal(t, 3, got.Size)
	assert.Equal(t, "photo.png", got.Name)

	meta, err := repo.GetMeta(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, meta.PixelData)

	meta.Name = "renamed.png"
	require.NoError(t, repo.UpdateMeta(ctx, meta))
	got, err = repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "renamed.png", got.Name)
	assert.Equal(t, []byte{1, 2, 3}, got.PixelData, "rename keeps pixels")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)

	require.NoError(t, repo.Delete(ctx, "a1"))
	_, err = repo.Get(ctx, "a1")
	assert.ErrorIs(t, err, entity.ErrAssetNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a1"), entity.ErrAssetNotFound)

	ok, err := store.Exists(ctx, "original/a1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCardRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newStore(t))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrCardNotFound)
	assert.ErrorIs(t, repo.Put(ctx, &entity.Card{}), entity.ErrInvalidInput)

	amount := 3
	card := &entity.Card{ID: "c1", Value: "7", Amount: &amount, Base64: []byte("png")}
	require.NoError(t, repo.Put(ctx, card))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, card, got)

	require.NoError(t, repo.Delete(ctx, "c1"))
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), entity.ErrCardNotFound)
}

func TestCardRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(newStore(t))

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cards := []*entity.Card{
		{ID: "z", Value: "1", CreatedAt: base},
		{ID: "b", Value: "2", CreatedAt: base.Add(time.Hour)},
		{ID: "a", Value: "3", CreatedAt: base},
	}
	for _, c := range cards {
		require.NoError(t, repo.Put(ctx, c))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"a", "z", "b"}, ids)
}
