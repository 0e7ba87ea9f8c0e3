package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"solitaire-cipher/internal/cipher"
	"solitaire-cipher/internal/config"
	"solitaire-cipher/internal/models"

	"github.com/gin-gonic/gin"
)

type messageView struct {
	models.ChannelMessage
	Plaintext string `json:"plaintext,omitempty"`
}

// normalizeCiphertext accepts letters and spaces only and uppercases them.
func normalizeCiphertext(s string) (string, error) {
	s = strings.TrimSpace(s)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == ' ' || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			continue
		}
		return "", fmt.Errorf("%w: unexpected %q at offset %d", cipher.ErrInvalidCiphertext, ch, i)
	}
	return strings.ToUpper(s), nil
}

// PostMessageHandler encrypts text with the caller's deck, stores the
// ciphertext on the deck's channel and pushes it to websocket subscribers.
func PostMessageHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
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
		var req cipherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		letters, err := checkMessageSize(req.Text, cfg.MaxMessageLetters)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		k, s, err := loadSolitaire(db, deckID, userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		ciphertext := encryptWithDeck(c.Request.Context(), s, k.ID, req.Text, letters)
		m, err := models.CreateChannelMessage(db, k.Channel, userID, ciphertext)
		if err != nil {
			log.Printf("channel message insert failed: deck_id=%d user_id=%d err=%v", k.ID, userID, err)
			writeAPIError(c, err)
			return
		}
		broadcastChannelMessage(m)
		c.JSON(http.StatusCreated, gin.H{"message": m})
	}
}

// ListMessagesHandler lists the deck's channel, oldest first. With
// ?decrypt=true each message also carries its plaintext.
func ListMessagesHandler(db *sql.DB) gin.HandlerFunc {
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
		k, s, err := loadSolitaire(db, deckID, userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		msgs, err := models.ListChannelMessages(db, k.Channel, int64Query(c, "after_id", 0), int64Query(c, "limit", 50))
		if err != nil {
			writeAPIError(c, err)
			return
		}

		decrypt := c.Query("decrypt") == "true"
		out := make([]messageView, 0, len(msgs))
		for _, m := range msgs {
			v := messageView{ChannelMessage: m}
			if decrypt {
				pt, err := decryptWithDeck(c.Request.Context(), s, k.ID, m.Ciphertext)
				if err != nil {
					log.Printf("stored message not decryptable: message_id=%d deck_id=%d err=%v", m.ID, k.ID, err)
				} else {
					v.Plaintext = pt
				}
			}
			out = append(out, v)
		}
		c.JSON(http.StatusOK, gin.H{"messages": out})
	}
}
