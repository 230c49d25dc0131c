package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/database"
	"github.com/waliamehak/staff-attendance-portal/internal/models"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

func Me(c *gin.Context) {
	userID := c.GetString("userId")

	if database.DB == nil {
		utils.SuccessResponse(c, 200, "", gin.H{
			"auth0Id": userID,
			"role":    c.GetString("role"),
		})
		return
	}

	collection := database.DB.Collection(database.UsersCollection)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := collection.FindOne(ctx, bson.M{"auth0Id": userID}).Decode(&user)
	if err != nil {
		utils.SuccessResponse(c, 200, "", gin.H{
			"auth0Id": userID,
			"role":    c.GetString("role"),
		})
		return
	}

	utils.SuccessResponse(c, 200, "", gin.H{
		"_id":     user.ID,
		"auth0Id": user.Auth0ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    user.Role,
	})
}
