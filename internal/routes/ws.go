package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/websocket"
)

func FeedRoutes(r *gin.Engine, hub *websocket.Hub) {
	r.GET("/ws", hub.HandleWebSocket)
}
