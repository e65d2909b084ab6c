package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/cardforge/internal/transport/middleware"
)

func InitRoutes(h *Handler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	assets := router.Group("/assets")
	{
		assets.POST("", h.UploadAsset)
		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.GET("/:id/raw", h.GetAssetRaw)
		assets.PATCH("/:id", h.RenameAsset)
		assets.DELETE("/:id", h.DeleteAsset)
	}

	cards := router.Group("/cards")
	{
		cards.POST("", h.CreateCard)
		cards.GET("", h.ListCards)
		cards.GET("/:id", h.GetCard)
		cards.PUT("/:id", h.UpdateCard)
		cards.DELETE("/:id", h.DeleteCard)
		cards.POST("/:id/duplicate", h.DuplicateCard)
		cards.GET("/:id/render", h.RenderCard)
	}

	router.POST("/export", h.Export)
	router.POST("/import", h.Import)

	started := time.Now()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "cardforge",
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	})
	return router
}
