package handlers

import (
	"database/sql"
	"net/http"

	"solitaire-cipher/internal/config"
	"solitaire-cipher/internal/middleware"
	ws "solitaire-cipher/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ServiceName names the server in traces.
const ServiceName = "solitaire-cipher"

// NewRouter builds the HTTP API. hubs may be nil when no websocket hub runs.
func NewRouter(db *sql.DB, cfg config.Config, hubs func() (*ws.Hub, bool)) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware(ServiceName))
	r.Use(middleware.DevCORS(cfg))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	RegisterAuthRoutes(api, db, cfg)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg))
	RegisterDeckRoutes(protected, db, cfg)

	if hubs != nil {
		r.GET("/ws", WebSocketHandler(hubs, db, cfg))
	}
	return r
}

func RegisterAuthRoutes(rg *gin.RouterGroup, db *sql.DB, cfg config.Config) {
	rg.POST("/auth/register", RegisterHandler(db, cfg))
	rg.POST("/auth/login", LoginHandler(db, cfg))
	rg.POST("/auth/logout", LogoutHandler(cfg))
	rg.GET("/auth/me", middleware.RequireAuth(cfg), MeHandler(db))
}

func RegisterDeckRoutes(rg *gin.RouterGroup, db *sql.DB, cfg config.Config) {
	rg.GET("/decks", ListDecksHandler(db))
	rg.POST("/decks", CreateDeckHandler(db))
	rg.GET("/decks/:id", GetDeckHandler(db))
	rg.DELETE("/decks/:id", DeleteDeckHandler(db))
	rg.POST("/decks/:id/share", ShareDeckHandler(db))

	rg.POST("/decks/:id/encrypt", EncryptHandler(db, cfg))
	rg.POST("/decks/:id/decrypt", DecryptHandler(db, cfg))

	rg.POST("/decks/:id/messages", PostMessageHandler(db, cfg))
	rg.GET("/decks/:id/messages", ListMessagesHandler(db))
}
