package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/handlers"
	"github.com/waliamehak/staff-attendance-portal/internal/session"
	"github.com/waliamehak/staff-attendance-portal/internal/websocket"
)

type Deps struct {
	Attendance  *handlers.AttendanceHandler
	Hub         *websocket.Hub
	Uploads     *session.Uploads
	AdminRole   string
	DebugRoutes bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"data": gin.H{
				"status": "Server is running",
			},
		})
	})

	AuthRoutes(r)
	AttendanceRoutes(r, d.Attendance, d.AdminRole)
	if d.Hub != nil {
		FeedRoutes(r, d.Hub)
	}
	if d.DebugRoutes && d.Uploads != nil {
		DebugRoutes(r, d.Uploads)
	}
	return r
}
