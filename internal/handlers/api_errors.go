package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"solitaire-cipher/internal/cards"
	"solitaire-cipher/internal/cipher"
	"solitaire-cipher/internal/models"

	"github.com/gin-gonic/gin"
)

func writeAPIError(c *gin.Context, err error) {
	if err == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrDeckNotFound) || errors.Is(err, sql.ErrNoRows) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// Typed validation and permission errors only; raw errors are never echoed.
	switch {
	case errors.Is(err, models.ErrInvalidJSON):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	case errors.Is(err, models.ErrNotDeckOwner):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not the deck owner"})
		return
	case errors.Is(err, cards.ErrInvalidDeck):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid deck"})
		return
	case errors.Is(err, cards.ErrInvalidCard):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid card"})
		return
	case errors.Is(err, cipher.ErrInvalidCiphertext):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid ciphertext"})
		return
	case errors.Is(err, models.ErrEmptyMessage):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "message has no letters"})
		return
	case errors.Is(err, models.ErrMessageTooLong):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "message too long"})
		return
	case errors.Is(err, models.ErrSelfShare):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot share a deck with yourself"})
		return
	case errors.Is(err, models.ErrUnknownDeckMode):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown deck mode"})
		return
	case errors.Is(err, models.ErrInvalidDeckName):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "deck name must be at most 64 characters"})
		return
	}

	log.Printf("internal error: method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
