package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/handlers"
	"github.com/waliamehak/staff-attendance-portal/internal/middleware"
)

func AttendanceRoutes(r *gin.Engine, h *handlers.AttendanceHandler, adminRole string) {
	admin := r.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole(adminRole))
	{
		admin.POST("/attendance/upload", h.Upload)
		admin.GET("/attendance", h.Get)
		admin.GET("/attendance/months", h.ListMonths)
		admin.GET("/attendance/export", h.Export)
	}
}
