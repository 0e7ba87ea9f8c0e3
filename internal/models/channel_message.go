package models

import (
	"database/sql"
	"time"
)

type ChannelMessage struct {
	ID         int64     `json:"id"`
	Channel    string    `json:"channel"`
	SenderID   int64     `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
}

const channelMessageSelect = `SELECT m.id, m.channel, m.sender_id, u.username, m.ciphertext, m.created_at
	FROM channel_messages m
	JOIN users u ON u.id = m.sender_id`

func CreateChannelMessage(db *sql.DB, channel string, senderID int64, ciphertext string) (*ChannelMessage, error) {
	res, err := db.Exec(
		`INSERT INTO channel_messages(channel, sender_id, ciphertext) VALUES (?, ?, ?)`,
		channel, senderID, ciphertext,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var m ChannelMessage
	err = db.QueryRow(channelMessageSelect+` WHERE m.id = ?`, id).
		Scan(&m.ID, &m.Channel, &m.SenderID, &m.SenderName, &m.Ciphertext, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListChannelMessages returns messages on channel with id > afterID, oldest
// first.
func ListChannelMessages(db *sql.DB, channel string, afterID, limit int64) ([]ChannelMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := db.Query(
		channelMessageSelect+` WHERE m.channel = ? AND m.id > ? ORDER BY m.id ASC LIMIT ?`,
		channel, afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ChannelMessage{}
	for rows.Next() {
		var m ChannelMessage
		if err := rows.Scan(&m.ID, &m.Channel, &m.SenderID, &m.SenderName, &m.Ciphertext, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
