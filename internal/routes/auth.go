package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/handlers"
	"github.com/waliamehak/staff-attendance-portal/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}
}
