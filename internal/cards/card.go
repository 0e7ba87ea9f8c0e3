package cards

import (
	"fmt"
	"strconv"
	"strings"
)

type Suit string

const (
	Clubs    Suit = "C"
	Diamonds Suit = "D"
	Hearts   Suit = "H"
	Spades   Suit = "S"
	JokerA   Suit = "A"
	JokerB   Suit = "B"
)

// standardSuits is ordered by suit base, lowest first.
var standardSuits = []Suit{Clubs, Diamonds, Hearts, Spades}

// JokerValue is the numeric value shared by both jokers.
const JokerValue = 53

// Base is the amount added to a rank to get the card value.
func (s Suit) Base() int {
	switch s {
	case Clubs:
		return 0
	case Diamonds:
		return 13
	case Hearts:
		return 26
	case Spades:
		return 39
	case JokerA, JokerB:
		return JokerValue
	}
	return -1
}

func (s Suit) IsJoker() bool {
	return s == JokerA || s == JokerB
}

func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	case JokerA:
		return "joker a"
	case JokerB:
		return "joker b"
	}
	return "unknown"
}

type Rank int

const (
	Joker Rank = 0
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Card is a playing card or one of the two jokers. Cards compare with == by
// identity, so the two jokers are never equal even though their values are.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

var (
	FirstJoker  = Card{Rank: Joker, Suit: JokerA}
	SecondJoker = Card{Rank: Joker, Suit: JokerB}
)

func NewCard(suit Suit, rank Rank) (Card, error) {
	c := Card{Rank: rank, Suit: suit}
	if !c.Valid() {
		return Card{}, fmt.Errorf("%w: suit=%q rank=%d", ErrInvalidCard, string(suit), int(rank))
	}
	return c, nil
}

// Valid reports whether c is one of the 54 cards of a Solitaire deck.
func (c Card) Valid() bool {
	if c.Suit.IsJoker() {
		return c.Rank == Joker
	}
	if c.Suit.Base() < 0 {
		return false
	}
	return c.Rank >= Ace && c.Rank <= King
}

func (c Card) IsJoker() bool {
	return c.Suit.IsJoker()
}

// Value is 1..52 for suited cards and 53 for either joker.
func (c Card) Value() int {
	return c.Suit.Base() + int(c.Rank)
}

func (c Card) String() string {
	if c.IsJoker() {
		return "J" + string(c.Suit)
	}
	var r string
	switch c.Rank {
	case Ace:
		r = "A"
	case Jack:
		r = "J"
	case Queen:
		r = "Q"
	case King:
		r = "K"
	default:
		r = strconv.Itoa(int(c.Rank))
	}
	return r + string(c.Suit)
}

// Name is the long form, e.g. "the queen of hearts".
func (c Card) Name() string {
	if c.IsJoker() {
		return "the " + c.Suit.Name()
	}
	names := []string{"", "ace", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "jack", "queen", "king"}
	if c.Rank < Ace || c.Rank > King {
		return "an invalid card"
	}
	return "the " + names[c.Rank] + " of " + c.Suit.Name()
}

// rankTokens maps the rank part of every canonical token to its rank.
var rankTokens = map[string]Rank{
	"A": Ace, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": Jack, "Q": Queen, "K": King,
}

// ParseCard reads a token produced by Card.String, ignoring case and
// surrounding space. Jokers are "JA" and "JB".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	switch s {
	case "JA":
		return FirstJoker, nil
	case "JB":
		return SecondJoker, nil
	}
	suit := Suit(s[len(s)-1:])
	rankStr := s[:len(s)-1]
	r, ok := rankTokens[rankStr]
	if !ok {
		return Card{}, fmt.Errorf("%w: invalid rank in %q", ErrInvalidCard, s)
	}
	switch suit {
	case Spades, Hearts, Diamonds, Clubs:
	default:
		return Card{}, fmt.Errorf("%w: invalid suit in %q", ErrInvalidCard, s)
	}
	return Card{Rank: r, Suit: suit}, nil
}
