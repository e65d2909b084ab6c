package entity

import "errors"

var (
	// Store errors
	ErrAssetNotFound = errors.New("asset not found")
	ErrCardNotFound  = errors.New("card not found")

	// Input errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedMedia = errors.New("unsupported image type")

	// Render / export errors
	ErrDecodeFailure  = errors.New("image decode failed")
	ErrEncodeFailure  = errors.New("image encode failed")
	ErrArchiveFailure = errors.New("archive failed")
)
