package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"solitaire-cipher/internal/cards"
	"solitaire-cipher/internal/models"
	"solitaire-cipher/internal/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultDeckName = "untitled"
	maxDeckNameLen  = 64
)

type createDeckRequest struct {
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	Cards string `json:"cards"`
}

type shareDeckRequest struct {
	Username string `json:"username"`
}

// buildDeck creates the key deck for a create request. An empty mode means
// shuffled.
func buildDeck(mode, order string) (*cards.Deck, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "shuffled":
		return cards.NewShuffledDeck(), nil
	case "ascending":
		return cards.NewSortedDeck(true), nil
	case "descending":
		return cards.NewSortedDeck(false), nil
	case "import":
		return cards.ParseDeck(order)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownDeckMode, mode)
	}
}

func normalizeDeckName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultDeckName, nil
	}
	if utf8.RuneCountInString(name) > maxDeckNameLen {
		return "", models.ErrInvalidDeckName
	}
	return name, nil
}

func ListDecksHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		decks, err := models.ListKeyDecks(db, userID, int64Query(c, "limit", 50), int64Query(c, "offset", 0))
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"decks": decks})
	}
}

func CreateDeckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.CreateDeckHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createDeckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		name, err := normalizeDeckName(req.Name)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		deck, err := buildDeck(req.Mode, req.Cards)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		span.SetAttributes(attribute.String("deck.mode", req.Mode))

		k, err := models.CreateKeyDeck(db, userID, name, deck)
		if err != nil {
			log.Printf("deck create failed: user_id=%d err=%v", userID, err)
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"deck": k})
	}
}

func GetDeckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		deckID, ok := int64Param(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck id"})
			return
		}
		k, err := models.GetKeyDeckForOwner(db, deckID, userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deck": k})
	}
}

func DeleteDeckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		deckID, ok := int64Param(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck id"})
			return
		}
		if err := models.DeleteKeyDeck(db, deckID, userID); err != nil {
			writeAPIError(c, err)
			return
		}
		dropDeckClients(deckID)
		c.Status(http.StatusNoContent)
	}
}

// ShareDeckHandler gives another user a copy of the deck on the same channel.
func ShareDeckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.ShareDeckHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		deckID, ok := int64Param(c, "id")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck id"})
			return
		}
		var req shareDeckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
			return
		}

		recipient, err := models.GetUserByUsername(db, username)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		shared, err := models.ShareKeyDeck(db, deckID, userID, recipient.ID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		log.Printf("deck shared: deck_id=%d owner_id=%d recipient_id=%d copy_id=%d", deckID, userID, recipient.ID, shared.ID)
		c.JSON(http.StatusCreated, gin.H{"deck": shared})
	}
}
