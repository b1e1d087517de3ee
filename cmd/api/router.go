package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Trigger events
		events := api.Group("/events")
		{
			events.POST("/message-created", h.MessageCreated)
			events.POST("/token-sweep", h.TokenSweep)
		}
	}
}
