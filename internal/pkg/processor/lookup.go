package processor

import (
	"context"
	"image"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

// AssetLookup resolves an asset id into a decoded photo. It returns an error wrapping
// entity.ErrAssetNotFound or entity.ErrDecodeFailure when the photo layer must be skipped.
type AssetLookup func(ctx context.Context, id string) (image.Image, error)

// AssetSource is the subset of the asset repository the lookup needs.
type AssetSource interface {
	Get(ctx context.Context, id string) (*entity.ImageAsset, error)
}

func NewAssetLookup(src AssetSource) AssetLookup {
	return func(ctx context.Context, id string) (image.Image, error) {
		asset, err := src.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return Decode(asset.PixelData)
	}
}
