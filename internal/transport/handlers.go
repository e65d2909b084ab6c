package transport

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/service"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	assets  service.AssetService
	cards   service.CardService
	exports service.ExportService
}

func NewHandler(assets service.AssetService, cards service.CardService, exports service.ExportService) *Handler {
	return &Handler{assets: assets, cards: cards, exports: exports}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrAssetNotFound), errors.Is(err, entity.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrDecodeFailure):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// readFormFile reads an uploaded multipart file, bounded by maxUploadBytes.
func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > maxUploadBytes {
		return nil, entity.ErrInvalidInput
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(io.LimitReader(src, maxUploadBytes))
}
