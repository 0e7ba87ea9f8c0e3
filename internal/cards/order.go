package cards

import (
	"fmt"
	"strings"
)

// FormatOrder renders cards as space separated tokens, e.g. "AC 2C ... JA JB".
func FormatOrder(cards []Card) string {
	var b strings.Builder
	for i, c := range cards {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// ParseOrder reads a deck written by FormatOrder. Tokens may be separated by
// any whitespace or commas. The result is validated as a full deck.
func ParseOrder(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]Card, 0, len(fields))
	for i, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", ErrInvalidDeck, i, err)
		}
		out = append(out, c)
	}
	if err := ValidateOrder(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseDeck is ParseOrder followed by NewDeckFromOrder.
func ParseDeck(s string) (*Deck, error) {
	order, err := ParseOrder(s)
	if err != nil {
		return nil, err
	}
	return NewDeckFromOrder(order)
}

// String renders the key order.
func (d *Deck) String() string {
	return FormatOrder(d.key[:])
}
