// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"strings"
	"time"

	"fieldops-service/internal/pkg/response"
	ws "fieldops-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection authenticates and upgrades a dispatch client
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := h.extractToken(c)
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing authentication token", nil)
		return
	}

	auth, err := h.hub.AuthenticateClient(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.Error(c, http.StatusUnauthorized, "authentication failed", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	h.hub.Register <- client

	h.logger.Info("websocket client connected",
		zap.Int64("identity_id", auth.IdentityID),
		zap.String("session_id", auth.SessionID),
		zap.String("role", auth.Role),
	)

	go client.WritePump()
	go client.ReadPump()
}

// extractToken extracts token from query param or Authorization header
func (h *WebSocketHandler) extractToken(c *gin.Context) string {
	// Query parameter first; browsers cannot set headers on the upgrade
	token := c.Query("token")
	if token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return ""
}

// GetStats returns connection statistics (admin only)
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "websocket stats", stats)
}
