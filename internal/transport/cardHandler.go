package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

func (h *Handler) CreateCard(c *gin.Context) {
	var card entity.Card
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&card); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	created, err := h.cards.Create(c.Request.Context(), &card)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListCards(c *gin.Context) {
	cards, err := h.cards.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.CardListResponse{Count: len(cards), Cards: cards})
}

func (h *Handler) GetCard(c *gin.Context) {
	card, err := h.cards.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) UpdateCard(c *gin.Context) {
	var card entity.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.cards.Update(c.Request.Context(), c.Param("id"), &card)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DuplicateCard(c *gin.Context) {
	dup, err := h.cards.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dup)
}

func (h *Handler) DeleteCard(c *gin.Context) {
	if err := h.cards.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}

func (h *Handler) RenderCard(c *gin.Context) {
	png, err := h.cards.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
