package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dunkmaster/backend/internal/session"
	"github.com/dunkmaster/backend/internal/ws"
)

// HandleGameWebSocket streams a session's frames and accepts its inputs
func HandleGameWebSocket(hub *ws.Hub, manager *session.Manager) gin.HandlerFunc {
	return ws.HandleSession(hub, manager)
}
