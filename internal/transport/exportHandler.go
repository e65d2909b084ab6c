package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

func (h *Handler) Export(c *gin.Context) {
	var req entity.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	archive, report, err := h.exports.Export(c.Request.Context(), req, func(current, total int, msg string) {
		logrus.WithFields(logrus.Fields{"current": current, "total": total}).Debug(msg)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cards.zip"`)
	c.Header("X-Export-Rendered", strconv.Itoa(report.Rendered))
	c.Header("X-Export-Cached", strconv.Itoa(report.Cached))
	c.Header("X-Export-Warnings", strconv.Itoa(len(report.Warnings)))
	c.Header("X-Export-Omitted", strconv.Itoa(len(report.Omitted)))
	c.Data(http.StatusOK, "application/zip", archive)
}

func (h *Handler) Import(c *gin.Context) {
	file, err := c.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No archive file provided"})
		return
	}
	data, err := readFormFile(file)
	if err != nil {
		respondError(c, fmt.Errorf("read archive: %w", err))
		return
	}

	cards, err := h.exports.Import(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.CardListResponse{Count: len(cards), Cards: cards})
}
