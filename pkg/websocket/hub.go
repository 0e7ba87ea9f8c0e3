package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub fans channel messages out to the websocket clients in a room. Rooms are
// named "channel:<channel>" by the handlers.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Broadcast
	dropDeck   chan int64

	done     chan struct{}
	stopOnce sync.Once

	rooms map[string]map[*Client]bool
}

type Broadcast struct {
	Room    string
	Type    string
	Payload any
}

// Envelope is the frame written to every client.
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Broadcast, 256),
		dropDeck:   make(chan int64),
		done:       make(chan struct{}),
		rooms:      map[string]map[*Client]bool{},
	}
}

// Run serves hub requests until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for room, clients := range h.rooms {
				for c := range clients {
					c.closeSend()
				}
				delete(h.rooms, room)
			}
			return
		case c := <-h.register:
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = map[*Client]bool{}
			}
			h.rooms[c.Room][c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case b := <-h.broadcast:
			h.broadcastToRoom(b.Room, b.Type, b.Payload)
		case deckID := <-h.dropDeck:
			h.removeDeckClients(deckID)
		}
	}
}

// Stop ends Run. Calls made after Stop are dropped.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.closeSend()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Broadcast(room, typ string, payload any) {
	select {
	case h.broadcast <- Broadcast{Room: room, Type: typ, Payload: payload}:
	case <-h.done:
	}
}

// DropDeck disconnects every client subscribed through deckID. Broadcasts
// queued after DropDeck returns no longer reach those clients.
func (h *Hub) DropDeck(deckID int64) {
	select {
	case h.dropDeck <- deckID:
	case <-h.done:
	}
}

// roomSize is only safe to call from the goroutine running the hub, or after
// Run has returned.
func (h *Hub) roomSize(room string) int {
	return len(h.rooms[room])
}

func (h *Hub) removeClient(c *Client) {
	if c == nil {
		return
	}
	if h.rooms[c.Room] != nil {
		delete(h.rooms[c.Room], c)
		if len(h.rooms[c.Room]) == 0 {
			delete(h.rooms, c.Room)
		}
	}
	c.closeSend()
}

func (h *Hub) removeDeckClients(deckID int64) {
	for _, clients := range h.rooms {
		for c := range clients {
			if c.DeckID == deckID {
				h.removeClient(c)
			}
		}
	}
}

func (h *Hub) broadcastToRoom(room, typ string, payload any) {
	clients := h.rooms[room]
	if len(clients) == 0 {
		return
	}

	data, err := Encode(typ, payload)
	if err != nil {
		log.Printf("ws broadcast marshal error: room=%s type=%s err=%v", room, typ, err)
		return
	}

	for c := range clients {
		select {
		case c.Send <- data:
		default:
			// slow or dead client
			h.removeClient(c)
		}
	}
}

// Encode builds the JSON frame for typ and payload.
func Encode(typ string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
