package handlers

import (
	"log/slog"
	"net/http"

	"studlance_backend/internal/logger"
	"studlance_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients authenticate with the token query param; origin
	// checks are left to the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	*BaseHandler
	manager *ws.Manager
}

func NewWSHandler(base *BaseHandler, manager *ws.Manager) *WSHandler {
	return &WSHandler{
		BaseHandler: base,
		manager:     manager,
	}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.Serve)
}

// Serve upgrades the connection and runs the client until it disconnects.
func (h *WSHandler) Serve(c *gin.Context) {
	userID, ok := h.AuthUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Warn("ws upgrade failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}

	client := ws.NewClient(h.manager, conn, userID)
	client.Start()
}
