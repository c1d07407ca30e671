// server/internal/api/handlers/user_handler.go
package handlers

import (
	"net/http"
	"time"

	"reeutil-tradein-api-server/config"
	"reeutil-tradein-api-server/internal/auth"
	"reeutil-tradein-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserHandler struct {
	DB  *mongo.Database
	Cfg config.Config
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
		return
	}

	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}
	token, err := auth.GenerateJWT([]byte(h.Cfg.JWT.Secret), expiration, user.Email, user.Role, user.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
			"sub":   user.Sub,
		},
	})
}
