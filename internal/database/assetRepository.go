package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
)

func assetMetaKey(id string) string {
	return assetMetaPrefix + id + ".json"
}

func originalKey(id string) string {
	return originalPrefix + id
}

func (r *assetRepository) Save(ctx context.Context, asset *entity.ImageAsset) error {
	asset.Size = len(asset.PixelData)
	if err := r.store.Put(ctx, originalKey(asset.ID), asset.PixelData); err != nil {
		return fmt.Errorf("save asset %s pixels: %w", asset.ID, err)
	}
	return r.UpdateMeta(ctx, asset)
}

func (r *assetRepository) Get(ctx context.Context, id string) (*entity.ImageAsset, error) {
	asset, err := r.GetMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := r.store.Get(ctx, originalKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("asset %s pixels: %w", id, entity.ErrAssetNotFound)
		}
		return nil, err
	}
	asset.PixelData = data
	return asset, nil
}

func (r *assetRepository) GetMeta(ctx context.Context, id string) (*entity.ImageAsset, error) {
	data, err := r.store.Get(ctx, assetMetaKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("asset %s: %w", id, entity.ErrAssetNotFound)
		}
		return nil, err
	}
	var asset entity.ImageAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", id, err)
	}
	return &asset, nil
}

func (r *assetRepository) UpdateMeta(ctx context.Context, asset *entity.ImageAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, assetMetaKey(asset.ID), data)
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, assetMetaKey(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("asset %s: %w", id, entity.ErrAssetNotFound)
	}
	if err := r.store.Delete(ctx, originalKey(id)); err != nil {
		return err
	}
	return r.store.Delete(ctx, assetMetaKey(id))
}

func (r *assetRepository) List(ctx context.Context) ([]*entity.ImageAsset, error) {
	keys, err := r.store.List(ctx, assetMetaPrefix)
	if err != nil {
		return nil, err
	}
	assets := make([]*entity.ImageAsset, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(key, assetMetaPrefix), ".json")
		asset, err := r.GetMeta(ctx, id)
		if err != nil {
			// deleted between List and Get
			if errors.Is(err, entity.ErrAssetNotFound) {
				continue
			}
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
