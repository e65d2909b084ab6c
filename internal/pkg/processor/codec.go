package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

// Encoder serialises a rendered surface. EncodePNG is the default.
type Encoder func(w io.Writer, img image.Image) error

var supportedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// DetectMime sniffs the upload and rejects anything that is not a supported photo.
func DetectMime(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !supportedMime[mime] {
		return "", fmt.Errorf("%s: %w", mime, entity.ErrUnsupportedMedia)
	}
	return mime, nil
}

const (
	// MaxDimension and MaxPixels bound the photos accepted for decoding.
	MaxDimension = 12000
	MaxPixels    = 48_000_000
)

// Decode turns stored asset bytes into a drawable bitmap. GIFs yield their first frame.
// The header is checked first so oversized images are rejected before any pixel memory
// is allocated.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension || cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit is %d px per side and %d px total: %w",
			entity.ErrInvalidInput, cfg.Width, cfg.Height, MaxDimension, MaxPixels, entity.ErrDecodeFailure)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}
	return img, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrEncodeFailure, err)
	}
	return nil
}
