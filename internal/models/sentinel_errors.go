package models

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidJSON       = errors.New("invalid json")
	ErrDeckNotFound      = errors.New("deck not found")
	ErrNotDeckOwner      = errors.New("not the deck owner")
	ErrEmptyMessage      = errors.New("message has no letters")
	ErrMessageTooLong    = errors.New("message too long")
	ErrSelfShare         = errors.New("cannot share a deck with yourself")
	ErrUnknownDeckMode   = errors.New("unknown deck mode")
	ErrInvalidDeckName   = errors.New("invalid deck name")
	ErrStoredDeckCorrupt = errors.New("stored deck is corrupt")
)

// IsUniqueConstraint reports whether err is a sqlite UNIQUE violation, such as
// a second registration of the same username.
func IsUniqueConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
