package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"solitaire-cipher/internal/auth"
	"solitaire-cipher/internal/config"
	"solitaire-cipher/internal/middleware"
	"solitaire-cipher/internal/models"
	ws "solitaire-cipher/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			// Non-browser clients send no Origin.
			return true
		}
		if cfgDevAllowAll() {
			return true
		}
		if cfgIsDev() {
			return isLocalhostOrigin(origin) || isAllowedOrigin(origin)
		}
		return isAllowedOrigin(origin)
	},
}

// set from config at startup
var originMu sync.RWMutex
var allowedOrigins = map[string]bool{}
var devMode = false
var devAllowAll = false

func SetWebSocketOriginPolicy(isDev bool, allowAllDev bool, origins []string) {
	originMu.Lock()
	defer originMu.Unlock()
	devMode = isDev
	devAllowAll = allowAllDev
	allowedOrigins = map[string]bool{}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowedOrigins[o] = true
		}
	}
}

func cfgIsDev() bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return devMode
}

func cfgDevAllowAll() bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return devMode && devAllowAll
}

func isAllowedOrigin(origin string) bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return allowedOrigins[origin]
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WebSocketHandler subscribes the caller to the channel of one of their
// decks, selected with ?deck_id=N.
func WebSocketHandler(hubProvider func() (*ws.Hub, bool), db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := wsToken(c, cfg)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Checked before the upgrade so failures are still plain HTTP errors.
		deckID, err := strconv.ParseInt(strings.TrimSpace(c.Query("deck_id")), 10, 64)
		if err != nil || deckID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "deck_id required"})
			return
		}
		k, err := models.GetKeyDeckForOwner(db, deckID, claims.UserID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		hub, ok := hubProvider()
		if !ok || hub == nil {
			log.Printf("WebSocketHandler hubProvider returned nil: user_id=%d deck_id=%d", claims.UserID, deckID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocketHandler upgrade failed: path=%s remote=%s origin=%q err=%v",
				c.Request.URL.Path, c.ClientIP(), c.Request.Header.Get("Origin"), err,
			)
			return
		}

		room := channelRoom(k.Channel)
		client := ws.NewClient(conn, hub, room, claims.UserID, k.ID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(func(msg []byte) {
			handleWSMessage(hub, client, db, cfg, k.Channel, msg)
		})

		_ = client.SendDirect("connected", map[string]any{
			"user_id": client.UserID,
			"deck_id": k.ID,
			"channel": k.Channel,
		})
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func handleWSMessage(hub *ws.Hub, client *ws.Client, db *sql.DB, cfg config.Config, channel string, msg []byte) {
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		_ = client.SendDirect("error", map[string]any{"error": "invalid json"})
		return
	}

	switch in.Type {
	case "send":
		var p struct {
			Ciphertext string `json:"ciphertext"`
		}
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			_ = client.SendDirect("error", map[string]any{"error": "invalid payload"})
			return
		}
		ct, err := normalizeCiphertext(p.Ciphertext)
		if err != nil {
			_ = client.SendDirect("error", map[string]any{"error": "invalid ciphertext"})
			return
		}
		if _, err := checkMessageSize(ct, cfg.MaxMessageLetters); err != nil {
			_ = client.SendDirect("error", map[string]any{"error": err.Error()})
			return
		}
		// The deck may have been deleted since the upgrade.
		held, err := models.HasChannelAccess(db, client.UserID, channel)
		if err != nil {
			log.Printf("ws channel access check failed: user_id=%d deck_id=%d err=%v", client.UserID, client.DeckID, err)
			_ = client.SendDirect("error", map[string]any{"error": "internal error"})
			return
		}
		if !held {
			_ = client.SendDirect("error", map[string]any{"error": "deck no longer held"})
			hub.Unregister(client)
			return
		}
		m, err := models.CreateChannelMessage(db, channel, client.UserID, ct)
		if err != nil {
			log.Printf("ws channel message insert failed: user_id=%d deck_id=%d err=%v", client.UserID, client.DeckID, err)
			_ = client.SendDirect("error", map[string]any{"error": "internal error"})
			return
		}
		hub.Broadcast(client.Room, "channel_message", m)
	case "ping":
		_ = client.SendDirect("pong", map[string]any{"at": time.Now().UTC().Format(time.RFC3339Nano)})
	default:
		_ = client.SendDirect("error", map[string]any{"error": "unknown message type"})
	}
}

// wsToken reads the session like RequireAuth does, plus ?token= when
// WS_ALLOW_QUERY_TOKENS is set.
func wsToken(c *gin.Context, cfg config.Config) string {
	if t := middleware.TokenFromRequest(c); t != "" {
		return t
	}
	if cfg.WSAllowQueryTokens {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
