package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/session"
)

func DebugRoutes(r *gin.Engine, uploads *session.Uploads) {
	r.GET("/debug/last-upload", func(c *gin.Context) {
		last, ok := uploads.Last()
		if !ok {
			c.JSON(200, gin.H{"upload": nil})
			return
		}
		c.JSON(200, gin.H{"upload": last})
	})

	r.DELETE("/debug/last-upload", func(c *gin.Context) {
		uploads.Clear()
		c.JSON(200, gin.H{"upload": nil})
	})
}
