package cards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrder(t *testing.T) {
	s := NewSortedDeck(true).String()
	assert.True(t, strings.HasPrefix(s, "AC 2C 3C"))
	assert.True(t, strings.HasSuffix(s, "QS KS JA JB"))
	assert.Len(t, strings.Fields(s), DeckSize)
}

func TestParseDeck(t *testing.T) {
	d := NewShuffledDeck()
	got, err := ParseDeck(d.String())
	require.NoError(t, err)
	assert.Equal(t, d.Key(), got.Key())

	withCommas := strings.ReplaceAll(strings.ToLower(d.String()), " ", ",\n")
	got, err = ParseDeck(withCommas)
	require.NoError(t, err)
	assert.Equal(t, d.Key(), got.Key())
}

func TestParseOrder_Invalid(t *testing.T) {
	sorted := NewSortedDeck(true).String()

	tests := map[string]string{
		"bad token":   strings.Replace(sorted, "AC", "ZZ", 1),
		"short":       strings.TrimSuffix(sorted, " JB"),
		"duplicate":   strings.Replace(sorted, "JB", "JA", 1),
		"empty":       "",
		"extra card":  sorted + " AC",
		"padded rank": strings.Replace(sorted, " 2C ", " 02C ", 1),
		"signed rank": strings.Replace(sorted, " 3C ", " +3C ", 1),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOrder(in)
			assert.ErrorIs(t, err, ErrInvalidDeck)
		})
	}
}

