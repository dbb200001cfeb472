package handlers

import (
	"net/http"
	"time"

	"admin-dashboard-api/internal/database"
	"admin-dashboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetAllUsers returns all users, newest first (protected)
// GET /api/users
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.GetDB().Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
