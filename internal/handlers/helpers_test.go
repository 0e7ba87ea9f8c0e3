package handlers

import (
	"testing"

	"solitaire-cipher/internal/cards"
	"solitaire-cipher/internal/cipher"
	"solitaire-cipher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeck(t *testing.T) {
	d, err := buildDeck(" Ascending ", "")
	require.NoError(t, err)
	assert.True(t, d.Equal(cards.NewSortedDeck(true)))

	d, err = buildDeck("import", cards.NewSortedDeck(false).String())
	require.NoError(t, err)
	assert.True(t, d.Equal(cards.NewSortedDeck(false)))

	_, err = buildDeck("cut", "")
	assert.ErrorIs(t, err, models.ErrUnknownDeckMode)

	_, err = buildDeck("import", "JA JB")
	assert.ErrorIs(t, err, cards.ErrInvalidDeck)
}

func TestNormalizeCiphertext(t *testing.T) {
	got, err := normalizeCiphertext("  glncq MJAFF ")
	require.NoError(t, err)
	assert.Equal(t, "GLNCQ MJAFF", got)

	_, err = normalizeCiphertext("GLNCQ1")
	assert.ErrorIs(t, err, cipher.ErrInvalidCiphertext)
}

func TestCheckMessageSize(t *testing.T) {
	n, err := checkMessageSize("ab cd", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = checkMessageSize("...", 4)
	assert.ErrorIs(t, err, models.ErrEmptyMessage)

	_, err = checkMessageSize("abcde", 4)
	assert.ErrorIs(t, err, models.ErrMessageTooLong)

	_, err = checkMessageSize("abcde", 0)
	assert.NoError(t, err)
}
