package cards

import "errors"

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrInvalidDeck = errors.New("invalid deck")
)
