package transport

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

func (h *Handler) UploadAsset(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	data, err := readFormFile(file)
	if err != nil {
		respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	asset, err := h.assets.Upload(c.Request.Context(), file.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.assets.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.AssetListResponse{Count: len(assets), Assets: assets})
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.assets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) GetAssetRaw(c *gin.Context) {
	asset, err := h.assets.Raw(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, asset.MimeType, asset.PixelData)
}

func (h *Handler) RenameAsset(c *gin.Context) {
	var req entity.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asset, err := h.assets.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.assets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}
