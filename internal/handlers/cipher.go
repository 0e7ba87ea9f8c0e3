package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"solitaire-cipher/internal/cipher"
	"solitaire-cipher/internal/config"
	"solitaire-cipher/internal/models"
	"solitaire-cipher/internal/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type cipherRequest struct {
	Text string `json:"text"`
}

type cipherResponse struct {
	DeckID  int64  `json:"deck_id"`
	Text    string `json:"text"`
	Letters int    `json:"letters"`
}

// checkMessageSize rejects text with no letters or more than limit letters.
func checkMessageSize(text string, limit int) (int, error) {
	n := cipher.LetterCount(text)
	if n == 0 {
		return 0, models.ErrEmptyMessage
	}
	if limit > 0 && n > limit {
		return n, models.ErrMessageTooLong
	}
	return n, nil
}

// loadSolitaire loads the caller's deck and keys a Solitaire with it.
func loadSolitaire(db *sql.DB, deckID, userID int64) (*models.KeyDeck, *cipher.Solitaire, error) {
	k, err := models.GetKeyDeckForOwner(db, deckID, userID)
	if err != nil {
		return nil, nil, err
	}
	deck, err := k.Deck()
	if err != nil {
		return nil, nil, err
	}
	return k, cipher.New(deck), nil
}

func encryptWithDeck(ctx context.Context, s *cipher.Solitaire, deckID int64, plaintext string, letters int) string {
	_, span := tracing.StartCipherSpan(ctx, "encrypt", deckID, letters)
	out := s.Encrypt(plaintext)
	span.SetAttributes(attribute.Int("solitaire.output_letters", cipher.LetterCount(out)))
	tracing.EndSpan(span, nil)
	return out
}

func decryptWithDeck(ctx context.Context, s *cipher.Solitaire, deckID int64, ciphertext string) (string, error) {
	_, span := tracing.StartCipherSpan(ctx, "decrypt", deckID, cipher.LetterCount(ciphertext))
	out, err := s.Decrypt(ciphertext)
	tracing.EndSpan(span, err)
	return out, err
}

func EncryptHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return cipherHandler(db, cfg, cipher.Encode)
}

func DecryptHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return cipherHandler(db, cfg, cipher.Decode)
}

func cipherHandler(db *sql.DB, cfg config.Config, dir cipher.Direction) gin.HandlerFunc {
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

		var out string
		if dir == cipher.Encode {
			out = encryptWithDeck(c.Request.Context(), s, k.ID, req.Text, letters)
		} else {
			out, err = decryptWithDeck(c.Request.Context(), s, k.ID, req.Text)
			if err != nil {
				writeAPIError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, cipherResponse{DeckID: k.ID, Text: out, Letters: cipher.LetterCount(out)})
	}
}
