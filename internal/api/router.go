package api

import (
	"github.com/gin-gonic/gin"

	"github.com/AwesomeSam9523/muj-bot/internal/auth"
	"github.com/AwesomeSam9523/muj-bot/internal/config"
	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

// RecordStore is the slice of the record store the ops API reads from.
type RecordStore interface {
	ListVerifications(status models.Status) ([]models.VerificationRequest, error)
	ListPendingVerifications() ([]models.VerificationRequest, error)
	GetVerification(id string) (models.VerificationRequest, error)
	CountByStatus() (map[models.Status]int, error)
}

// Backend is what the HTTP layer needs from the running app.
type Backend interface {
	GetConfig() config.Config
	GetStore() RecordStore
	GetAuth() *auth.Service
}

// SetupRouter wires the read-only moderation/ops endpoints, using thin
// closure wrappers so each handler receives the running backend.
func SetupRouter(b Backend) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	/* ---------- public endpoints ---------- */
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.POST("/api/login", func(c *gin.Context) { handleLogin(b, c) })

	/* ---------- protected endpoints ---------- */
	api := r.Group("/api")
	api.Use(authMiddleware(b))
	{
		api.GET("/verifications", func(c *gin.Context) { handleListVerifications(b, c) })
		api.GET("/verifications/pending",
			func(c *gin.Context) { handleListPending(b, c) })
		api.GET("/verifications/:id",
			func(c *gin.Context) { handleGetVerification(b, c) })
		api.GET("/stats", func(c *gin.Context) { handleStats(b, c) })
	}

	return r
}
