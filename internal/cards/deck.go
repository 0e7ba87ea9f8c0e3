package cards

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
)

// DeckSize is 52 suited cards plus two jokers.
const DeckSize = 54

type order [DeckSize]Card

// Deck holds a key order, which is the shared secret, and a working order
// that the keystream generator mutates. A Deck is not safe for concurrent
// use; give each goroutine its own Copy.
type Deck struct {
	key   order
	cards order
}

// NewSortedDeck returns a deck in canonical order: every suited card by value
// (ascending or descending) followed by JokerA then JokerB.
func NewSortedDeck(ascending bool) *Deck {
	d := &Deck{}
	d.Sort(ascending)
	return d
}

// NewShuffledDeck returns a deck whose key order is a uniformly random
// permutation.
func NewShuffledDeck() *Deck {
	d := NewSortedDeck(true)
	d.Shuffle()
	return d
}

// NewDeckFromOrder builds a deck whose key order is cards. The slice must hold
// each of the 54 cards exactly once.
func NewDeckFromOrder(cards []Card) (*Deck, error) {
	if err := ValidateOrder(cards); err != nil {
		return nil, err
	}
	d := &Deck{}
	copy(d.key[:], cards)
	d.cards = d.key
	return d, nil
}

// ValidateOrder checks that cards is a permutation of the full deck.
func ValidateOrder(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("%w: expected %d cards, got %d", ErrInvalidDeck, DeckSize, len(cards))
	}
	seen := make(map[Card]int, DeckSize)
	for i, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card at position %d", ErrInvalidDeck, i)
		}
		if j, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s appears at positions %d and %d", ErrInvalidDeck, c, j, i)
		}
		seen[c] = i
	}
	return nil
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Key returns a copy of the key order.
func (d *Deck) Key() []Card {
	out := make([]Card, DeckSize)
	copy(out, d.key[:])
	return out
}

// Cards returns a copy of the working order.
func (d *Deck) Cards() []Card {
	out := make([]Card, DeckSize)
	copy(out, d.cards[:])
	return out
}

// Equal reports whether both decks have the same key and working orders.
func (d *Deck) Equal(other *Deck) bool {
	return d.key == other.key && d.cards == other.cards
}

// Restore resets the working order to the key order.
func (d *Deck) Restore() {
	d.cards = d.key
}

// Copy returns an independent deck sharing this deck's key order. Its working
// order starts at the key order regardless of this deck's working state.
func (d *Deck) Copy() *Deck {
	return &Deck{key: d.key, cards: d.key}
}

// Sort regenerates the canonical order and makes it the new key.
func (d *Deck) Sort(ascending bool) {
	i := 0
	for _, s := range standardSuits {
		for r := Ace; r <= King; r++ {
			d.cards[i] = Card{Rank: r, Suit: s}
			i++
		}
	}
	if !ascending {
		suited := d.cards[:DeckSize-2]
		for l, r := 0, len(suited)-1; l < r; l, r = l+1, r-1 {
			suited[l], suited[r] = suited[r], suited[l]
		}
	}
	d.cards[DeckSize-2] = FirstJoker
	d.cards[DeckSize-1] = SecondJoker
	d.key = d.cards
}

// Shuffle applies a Fisher-Yates shuffle to the working order and makes the
// result the new key.
func (d *Deck) Shuffle() {
	shuffle(d.cards[:])
	d.key = d.cards
}

func shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		nBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			// fallback: runtime generator
			mrand.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })
			return
		}
		j := int(nBig.Int64())
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// MoveDown moves c down one position n times. A card on the bottom wraps to
// just below the top card, never to the top itself.
func (d *Deck) MoveDown(c Card, n int) {
	for i := 0; i < n; i++ {
		d.moveDownOnce(c)
	}
}

func (d *Deck) moveDownOnce(c Card) {
	i := d.indexOf(c)
	if i == DeckSize-1 {
		copy(d.cards[2:], d.cards[1:DeckSize-1])
		d.cards[1] = c
		return
	}
	d.cards[i], d.cards[i+1] = d.cards[i+1], d.cards[i]
}

// TripleCut swaps the cards above the higher of a and b with the cards below
// the lower one. The argument order does not matter.
func (d *Deck) TripleCut(a, b Card) {
	lo, hi := d.indexOf(a), d.indexOf(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	var next order
	n := copy(next[:], d.cards[hi+1:])
	n += copy(next[n:], d.cards[lo:hi+1])
	copy(next[n:], d.cards[:lo])
	d.cards = next
}

// BottomCut moves as many cards from the top as the bottom card's value to
// just above the bottom card. The bottom card stays in place.
func (d *Deck) BottomCut() {
	last := d.cards[DeckSize-1]
	v := last.Value()
	var next order
	n := copy(next[:], d.cards[v:DeckSize-1])
	copy(next[n:], d.cards[:v])
	next[DeckSize-1] = last
	d.cards = next
}

func (d *Deck) indexOf(c Card) int {
	for i := range d.cards {
		if d.cards[i] == c {
			return i
		}
	}
	panic(fmt.Sprintf("cards: %s missing from working order", c))
}
