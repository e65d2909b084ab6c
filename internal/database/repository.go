package database

import (
	"context"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
)

const (
	assetMetaPrefix = "metadata/assets/"
	originalPrefix  = "original/"
	cardPrefix      = "cards/"
)

type AssetRepository interface {
	Save(ctx context.Context, asset *entity.ImageAsset) error
	// Get returns the asset with its pixel data.
	Get(ctx context.Context, id string) (*entity.ImageAsset, error)
	// GetMeta returns the asset without pixel data.
	GetMeta(ctx context.Context, id string) (*entity.ImageAsset, error)
	UpdateMeta(ctx context.Context, asset *entity.ImageAsset) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.ImageAsset, error)
}

type CardRepository interface {
	Get(ctx context.Context, id string) (*entity.Card, error)
	Put(ctx context.Context, card *entity.Card) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Card, error)
}

type assetRepository struct {
	store storage.ObjectStore
}

type cardRepository struct {
	store storage.ObjectStore
}

func NewAssetRepository(store storage.ObjectStore) AssetRepository {
	return &assetRepository{store: store}
}

func NewCardRepository(store storage.ObjectStore) CardRepository {
	return &cardRepository{store: store}
}
