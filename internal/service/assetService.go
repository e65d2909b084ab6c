package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
)

func (s *assetService) Upload(ctx context.Context, name string, data []byte) (*entity.ImageAsset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", entity.ErrInvalidInput)
	}
	mime, err := processor.DetectMime(data)
	if err != nil {
		return nil, err
	}
	// reject uploads that will never draw
	if _, err := processor.Decode(data); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "image"
	}
	asset := &entity.ImageAsset{
		ID:        uuid.NewString(),
		Name:      name,
		MimeType:  mime,
		CreatedAt: s.now().UTC(),
		PixelData: data,
	}
	if err := s.repo.Save(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, id string) (*entity.ImageAsset, error) {
	return s.repo.GetMeta(ctx, id)
}

func (s *assetService) Raw(ctx context.Context, id string) (*entity.ImageAsset, error) {
	return s.repo.Get(ctx, id)
}

func (s *assetService) Rename(ctx context.Context, id, name string) (*entity.ImageAsset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty name: %w", entity.ErrInvalidInput)
	}
	asset, err := s.repo.GetMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	asset.Name = name
	if err := s.repo.UpdateMeta(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes the asset. Cards still referencing it render without a photo.
func (s *assetService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *assetService) List(ctx context.Context) ([]*entity.ImageAsset, error) {
	return s.repo.List(ctx)
}
