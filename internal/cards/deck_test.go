package cards

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertFullDeck(t *testing.T, cards []Card) {
	t.Helper()
	require.Len(t, cards, DeckSize)
	assert.NoError(t, ValidateOrder(cards))
}

func TestNewSortedDeck_Ascending(t *testing.T) {
	d := NewSortedDeck(true)
	cards := d.Cards()

	assertFullDeck(t, cards)
	assert.Equal(t, DeckSize, d.Len())
	for i := 0; i < 52; i++ {
		assert.Equal(t, i+1, cards[i].Value(), "position %d", i)
	}
	assert.Equal(t, FirstJoker, cards[52])
	assert.Equal(t, SecondJoker, cards[53])
	assert.Equal(t, d.Key(), cards)
}

func TestNewSortedDeck_Descending(t *testing.T) {
	cards := NewSortedDeck(false).Cards()

	assertFullDeck(t, cards)
	for i := 0; i < 52; i++ {
		assert.Equal(t, 52-i, cards[i].Value(), "position %d", i)
	}
	assert.Equal(t, FirstJoker, cards[52])
	assert.Equal(t, SecondJoker, cards[53])
}

func TestDeck_SortAfterShuffle(t *testing.T) {
	d := NewShuffledDeck()
	d.Sort(true)
	assert.Equal(t, NewSortedDeck(true).Cards(), d.Cards())
	assert.Equal(t, d.Cards(), d.Key())
}

func TestDeck_ShuffleResetsKey(t *testing.T) {
	sorted := NewSortedDeck(true)
	d := NewSortedDeck(true)
	d.Shuffle()

	assertFullDeck(t, d.Cards())
	assert.Equal(t, d.Cards(), d.Key())
	assert.NotEqual(t, sorted.Cards(), d.Cards())
}

func TestDeck_ShuffleRandomizes(t *testing.T) {
	d := NewSortedDeck(true)
	last := d.Cards()
	moved, compared := 0, 0
	for i := 0; i < 200; i++ {
		d.Shuffle()
		cur := d.Cards()
		for j := range cur {
			compared++
			if cur[j] != last[j] {
				moved++
			}
		}
		last = cur
	}
	assert.Greater(t, float64(moved)/float64(compared), 0.9)
}

func TestNewDeckFromOrder(t *testing.T) {
	key := NewShuffledDeck().Key()
	d, err := NewDeckFromOrder(key)
	require.NoError(t, err)
	assert.Equal(t, key, d.Key())
	assert.Equal(t, key, d.Cards())

	// The deck keeps its own copy.
	key[0], key[1] = key[1], key[0]
	assert.NotEqual(t, key, d.Key())
}

func TestValidateOrder(t *testing.T) {
	full := NewSortedDeck(true).Key()

	dup := append([]Card(nil), full...)
	dup[53] = FirstJoker

	invalid := append([]Card(nil), full...)
	invalid[10] = Card{Rank: Joker, Suit: Hearts}

	noJoker := append([]Card(nil), full[:52]...)

	tests := []struct {
		name  string
		cards []Card
	}{
		{"empty", nil},
		{"too few", full[:53]},
		{"too many", append(append([]Card(nil), full...), Card{Rank: Ace, Suit: Clubs})},
		{"duplicate joker", dup},
		{"invalid card", invalid},
		{"missing jokers", noJoker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeckFromOrder(tt.cards)
			assert.ErrorIs(t, err, ErrInvalidDeck)
		})
	}
}

func TestDeck_MoveDown(t *testing.T) {
	t.Run("swaps with the card below", func(t *testing.T) {
		d := NewSortedDeck(true)
		before := d.Cards()
		d.MoveDown(before[10], 1)
		after := d.Cards()
		assert.Equal(t, before[10], after[11])
		assert.Equal(t, before[11], after[10])
	})

	t.Run("several positions", func(t *testing.T) {
		d := NewSortedDeck(true)
		before := d.Cards()
		d.MoveDown(before[3], 5)
		after := d.Cards()
		assert.Equal(t, before[3], after[8])
		assert.Equal(t, before[4:9], after[3:8])
	})

	t.Run("bottom card wraps below the top card", func(t *testing.T) {
		d := NewSortedDeck(true)
		before := d.Cards()
		d.MoveDown(SecondJoker, 1)
		after := d.Cards()
		assert.Equal(t, before[0], after[0])
		assert.Equal(t, SecondJoker, after[1])
		assert.Equal(t, before[1:53], after[2:])
	})

	t.Run("wrap then continue", func(t *testing.T) {
		d := NewSortedDeck(true)
		before := d.Cards()
		d.MoveDown(FirstJoker, 2)
		after := d.Cards()
		assert.Equal(t, before[0], after[0])
		assert.Equal(t, FirstJoker, after[1])
		assert.Equal(t, SecondJoker, after[53])
	})

	t.Run("zero moves", func(t *testing.T) {
		d := NewSortedDeck(true)
		d.MoveDown(FirstJoker, 0)
		assert.Equal(t, d.Key(), d.Cards())
	})
}

func TestDeck_TripleCut(t *testing.T) {
	d := NewShuffledDeck()
	cards := d.Cards()
	lo, hi := 12, 33
	first, second := cards[lo], cards[hi]

	var expected []Card
	expected = append(expected, cards[hi+1:]...)
	expected = append(expected, cards[lo:hi+1]...)
	expected = append(expected, cards[:lo]...)

	d.TripleCut(first, second)
	assert.Equal(t, expected, d.Cards())

	d.Restore()
	d.TripleCut(second, first)
	assert.Equal(t, expected, d.Cards())
}

func TestDeck_TripleCutAtEdges(t *testing.T) {
	d := NewSortedDeck(true)
	cards := d.Cards()

	// Markers at both ends leave the deck unchanged.
	d.TripleCut(cards[0], cards[53])
	assert.Equal(t, cards, d.Cards())

	d.Restore()
	d.TripleCut(cards[0], cards[10])
	assert.Equal(t, append(append([]Card(nil), cards[11:]...), cards[:11]...), d.Cards())
}

func TestDeck_BottomCut(t *testing.T) {
	d := NewShuffledDeck()
	before := d.Cards()
	bottom := before[53]
	v := bottom.Value()

	d.BottomCut()
	after := d.Cards()

	assert.Equal(t, bottom, after[53])
	assert.Equal(t, before[v:53], after[:53-v])
	assert.Equal(t, before[:v], after[53-v:53])
}

func TestDeck_BottomCutWithJokerOnBottom(t *testing.T) {
	d := NewSortedDeck(true)
	d.BottomCut()
	assert.Equal(t, d.Key(), d.Cards())
}

func TestDeck_Restore(t *testing.T) {
	d := NewSortedDeck(true)
	d.MoveDown(Card{Rank: Queen, Suit: Hearts}, 10)
	assert.NotEqual(t, d.Key(), d.Cards())

	d.Restore()
	assert.Equal(t, d.Key(), d.Cards())
}

func TestDeck_Copy(t *testing.T) {
	d := NewShuffledDeck()
	d.Next()

	c := d.Copy()
	require.NotSame(t, d, c)
	assert.Equal(t, d.Key(), c.Key())
	assert.Equal(t, d.Key(), c.Cards())
	assert.False(t, d.Equal(c))

	d.Restore()
	assert.True(t, d.Equal(c))

	c.Next()
	assert.Equal(t, d.Key(), d.Cards())
}

func TestDeck_MissingCardPanics(t *testing.T) {
	d := &Deck{}
	assert.Panics(t, func() { d.Next() })
}

// Any sequence of primitive moves keeps the same 54 cards.
func TestDeck_PrimitivesPreserveCards(t *testing.T) {
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		d := NewShuffledDeck()
		for i := 0; i < 200; i++ {
			cards := d.Cards()
			switch r.Intn(4) {
			case 0:
				d.MoveDown(cards[r.Intn(DeckSize)], r.Intn(60))
			case 1:
				d.TripleCut(cards[r.Intn(DeckSize)], cards[r.Intn(DeckSize)])
			case 2:
				d.BottomCut()
			case 3:
				d.Next()
			}
		}
		return ValidateOrder(d.Cards()) == nil && ValidateOrder(d.Key()) == nil
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 100}); err != nil {
		t.Error(err)
	}
}
