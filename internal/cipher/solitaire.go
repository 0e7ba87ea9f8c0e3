package cipher

import (
	"fmt"
	"strings"

	"solitaire-cipher/internal/cards"
)

// Solitaire encrypts and decrypts with the keystream of a key deck. Every
// call starts from the deck's key order, so calls are independent of each
// other. A Solitaire shares its deck's mutable state and must not be used
// from several goroutines at once.
type Solitaire struct {
	deck *cards.Deck
}

func New(deck *cards.Deck) *Solitaire {
	return &Solitaire{deck: deck}
}

// NewShuffled returns a Solitaire keyed with a freshly shuffled deck.
func NewShuffled() *Solitaire {
	return New(cards.NewShuffledDeck())
}

// Deck returns the key deck. Hand a Copy of it to the other party.
func (s *Solitaire) Deck() *cards.Deck {
	return s.deck
}

// Encrypt formats plaintext into five letter blocks and encodes it.
func (s *Solitaire) Encrypt(plaintext string) string {
	out, err := s.cipher(FormatMessage(plaintext), Encode)
	if err != nil {
		// FormatMessage emits only letters and spaces.
		panic(fmt.Sprintf("cipher: formatted message rejected: %v", err))
	}
	return out
}

// Decrypt decodes text produced by Encrypt. The input is not reformatted:
// spaces are kept as-is, letters of either case are decoded, and any other
// character yields ErrInvalidCiphertext.
func (s *Solitaire) Decrypt(ciphertext string) (string, error) {
	return s.cipher(ciphertext, Decode)
}

func (s *Solitaire) cipher(text string, dir Direction) (string, error) {
	s.deck.Restore()
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == ' ':
			b.WriteByte(' ')
		case ch >= 'a' && ch <= 'z':
			b.WriteByte(Shift(ch-'a'+'A', s.deck.Next(), dir))
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte(Shift(ch, s.deck.Next(), dir))
		default:
			return "", fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidCiphertext, ch, i)
		}
	}
	return b.String(), nil
}
