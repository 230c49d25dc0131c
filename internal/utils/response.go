package utils

import "github.com/gin-gonic/gin"

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(statusCode, body)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}
