package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Client is one websocket connection subscribed to a channel room.
type Client struct {
	Conn *websocket.Conn
	Hub  *Hub

	Room   string
	UserID int64
	DeckID int64

	closeOnce sync.Once
	Send      chan []byte
}

func NewClient(conn *websocket.Conn, hub *Hub, room string, userID, deckID int64) *Client {
	return &Client{
		Conn:   conn,
		Hub:    hub,
		Room:   room,
		UserID: userID,
		DeckID: deckID,
		Send:   make(chan []byte, 256),
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// ReadPump delivers inbound frames to onMessage until the connection fails,
// then unregisters the client.
func (c *Client) ReadPump(onMessage func([]byte)) {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error: user_id=%d room=%s err=%v", c.UserID, c.Room, err)
			}
			return
		}
		if onMessage != nil {
			onMessage(message)
		}
	}
}

// WritePump writes queued frames and keepalive pings until Send is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("ws ping error: %v", err)
				return
			}
		}
	}
}

// SendDirect queues a frame for this client only. The frame is dropped when
// the client's buffer is full.
func (c *Client) SendDirect(typ string, payload any) (err error) {
	b, err := Encode(typ, payload)
	if err != nil {
		return err
	}
	defer func() {
		// Send may already be closed by the hub.
		if recover() != nil {
			err = nil
		}
	}()
	select {
	case c.Send <- b:
	default:
		log.Printf("ws send drop: user_id=%d room=%s type=%s", c.UserID, c.Room, typ)
	}
	return nil
}
