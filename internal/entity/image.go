package entity

import "time"

// ImageAsset is an uploaded photo. Only Name may change after creation.
type ImageAsset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	PixelData []byte    `json:"-"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

type AssetListResponse struct {
	Count  int           `json:"count"`
	Assets []*ImageAsset `json:"assets"`
}
