package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
	"github.com/AwesomeSam9523/muj-bot/internal/storage"
)

type AdminLogin struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

func handleLogin(b Backend, c *gin.Context) {
	var in AdminLogin
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	cfg := b.GetConfig()
	if in.Email != cfg.AdminEmail ||
		b.GetAuth().CheckPassword(in.Password, cfg.AdminPasswordHash) != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := b.GetAuth().GenerateToken(in.Email)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(200, gin.H{"token": token})
}

func handleListVerifications(b Backend, c *gin.Context) {
	status := models.Status(c.Query("status"))
	switch status {
	case "", models.StatusPending, models.StatusAccepted, models.StatusDeclined:
	default:
		c.JSON(400, gin.H{"error": "Unknown status"})
		return
	}

	vs, err := b.GetStore().ListVerifications(status)
	if err != nil {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}
	c.JSON(200, gin.H{"verifications": vs, "count": len(vs)})
}

func handleListPending(b Backend, c *gin.Context) {
	vs, err := b.GetStore().ListPendingVerifications()
	if err != nil {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}
	c.JSON(200, gin.H{"verifications": vs, "count": len(vs)})
}

func handleGetVerification(b Backend, c *gin.Context) {
	v, err := b.GetStore().GetVerification(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(404, gin.H{"error": "Verification not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}
	c.JSON(200, v)
}

func handleStats(b Backend, c *gin.Context) {
	counts, err := b.GetStore().CountByStatus()
	if err != nil {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}
	c.JSON(200, gin.H{
		"pending":  counts[models.StatusPending],
		"accepted": counts[models.StatusAccepted],
		"declined": counts[models.StatusDeclined],
	})
}
