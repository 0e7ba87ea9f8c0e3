package models

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"solitaire-cipher/internal/cards"

	"github.com/google/uuid"
)

// KeyDeck is a persisted key order. Decks that share a Channel are copies of
// the same key and can read each other's messages.
type KeyDeck struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Cards     string    `json:"cards"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// Deck rebuilds the in-memory deck from the stored key order.
func (k *KeyDeck) Deck() (*cards.Deck, error) {
	d, err := cards.ParseDeck(k.Cards)
	if err != nil {
		return nil, fmt.Errorf("%w: deck_id=%d: %v", ErrStoredDeckCorrupt, k.ID, err)
	}
	return d, nil
}

// CreateKeyDeck stores the key order of deck under a new channel.
func CreateKeyDeck(db *sql.DB, ownerID int64, name string, deck *cards.Deck) (*KeyDeck, error) {
	res, err := db.Exec(
		`INSERT INTO key_decks(owner_id, name, cards, channel) VALUES (?, ?, ?, ?)`,
		ownerID, name, deck.String(), uuid.NewString(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetKeyDeck(db, id)
}

func GetKeyDeck(db *sql.DB, id int64) (*KeyDeck, error) {
	return scanKeyDeck(db.QueryRow(
		`SELECT id, owner_id, name, cards, channel, created_at FROM key_decks WHERE id = ?`,
		id,
	))
}

// GetKeyDeckForOwner loads a deck and checks that ownerID holds it.
func GetKeyDeckForOwner(db *sql.DB, id, ownerID int64) (*KeyDeck, error) {
	k, err := GetKeyDeck(db, id)
	if err != nil {
		return nil, err
	}
	if k.OwnerID != ownerID {
		return nil, ErrNotDeckOwner
	}
	return k, nil
}

func ListKeyDecks(db *sql.DB, ownerID, limit, offset int64) ([]KeyDeck, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.Query(
		`SELECT id, owner_id, name, cards, channel, created_at
		 FROM key_decks
		 WHERE owner_id = ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []KeyDeck{}
	for rows.Next() {
		var k KeyDeck
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.Name, &k.Cards, &k.Channel, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func DeleteKeyDeck(db *sql.DB, id, ownerID int64) error {
	if _, err := GetKeyDeckForOwner(db, id, ownerID); err != nil {
		return err
	}
	_, err := db.Exec(`DELETE FROM key_decks WHERE id = ? AND owner_id = ?`, id, ownerID)
	return err
}

// ShareKeyDeck gives recipientID a copy of the deck's key order on the same
// channel.
func ShareKeyDeck(db *sql.DB, id, ownerID, recipientID int64) (*KeyDeck, error) {
	if ownerID == recipientID {
		return nil, ErrSelfShare
	}
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	src, err := scanKeyDeck(tx.QueryRow(
		`SELECT id, owner_id, name, cards, channel, created_at FROM key_decks WHERE id = ?`,
		id,
	))
	if err != nil {
		return nil, err
	}
	if src.OwnerID != ownerID {
		return nil, ErrNotDeckOwner
	}
	res, err := tx.Exec(
		`INSERT INTO key_decks(owner_id, name, cards, channel) VALUES (?, ?, ?, ?)`,
		recipientID, src.Name, src.Cards, src.Channel,
	)
	if err != nil {
		return nil, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit share: %w", err)
	}
	return GetKeyDeck(db, newID)
}

// HasChannelAccess reports whether userID holds any deck on channel.
func HasChannelAccess(db *sql.DB, userID int64, channel string) (bool, error) {
	var n int64
	err := db.QueryRow(
		`SELECT COUNT(*) FROM key_decks WHERE owner_id = ? AND channel = ?`,
		userID, channel,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKeyDeck(row rowScanner) (*KeyDeck, error) {
	var k KeyDeck
	err := row.Scan(&k.ID, &k.OwnerID, &k.Name, &k.Cards, &k.Channel, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}
