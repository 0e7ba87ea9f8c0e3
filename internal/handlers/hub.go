package handlers

import (
	"solitaire-cipher/internal/models"
	ws "solitaire-cipher/pkg/websocket"
)

// hubProvider is set by main at startup so HTTP handlers can push channel
// messages to connected websocket clients.
var hubProvider func() (*ws.Hub, bool)

func SetHubProvider(p func() (*ws.Hub, bool)) {
	hubProvider = p
}

func channelRoom(channel string) string {
	return "channel:" + channel
}

func broadcastChannelMessage(m *models.ChannelMessage) {
	if hubProvider == nil || m == nil {
		return
	}
	hub, ok := hubProvider()
	if !ok || hub == nil {
		return
	}
	hub.Broadcast(channelRoom(m.Channel), "channel_message", m)
}

// dropDeckClients disconnects websocket clients subscribed through deckID.
func dropDeckClients(deckID int64) {
	if hubProvider == nil {
		return
	}
	hub, ok := hubProvider()
	if !ok || hub == nil {
		return
	}
	hub.DropDeck(deckID)
}
