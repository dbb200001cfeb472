package handlers

import (
	"errors"
	"net/http"
	"strings"

	"admin-dashboard-api/internal/auth"
	"admin-dashboard-api/internal/database"
	"admin-dashboard-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// Login handles the login endpoint
// POST /api/login
// Unknown usernames are registered on first login; known ones must match
// their stored bcrypt hash.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}
	username := strings.TrimSpace(req.Username)

	db := database.GetDB()
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if herr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		user = models.User{
			ID:       uuid.NewString(),
			Username: username,
			Password: string(hash),
			Name:     username,
			Role:     "User",
			Status:   "Active",
		}
		if err := db.Create(&user).Error; err != nil {
			log.WithError(err).WithField("username", username).Error("failed to register user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		log.WithField("user", user.ID).Info("registered new user on first login")
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	default:
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Message:  "Login successful",
	})
}
