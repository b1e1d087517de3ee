package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	broadcastdomain "chat-notify-backend/internal/broadcast/domain"
	broadcastusecase "chat-notify-backend/internal/broadcast/usecase"
	tokenusecase "chat-notify-backend/internal/token/usecase"
)

// Handler exposes the trigger endpoints over HTTP for Eventarc-style
// delivery and manual operation.
type Handler struct {
	fanout  broadcastusecase.FanoutUsecase
	sweeper tokenusecase.SweeperUsecase
}

// NewHandler creates a new Handler
func NewHandler(fanout broadcastusecase.FanoutUsecase, sweeper tokenusecase.SweeperUsecase) *Handler {
	return &Handler{
		fanout:  fanout,
		sweeper: sweeper,
	}
}

// Start runs the HTTP server on addr.
func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	SetupRoutes(r, h)
	return r.Run(addr)
}

// MessageCreated handles a message-created trigger event. The response is
// always a settled result body, never a propagated fault.
func (h *Handler) MessageCreated(c *gin.Context) {
	var message broadcastdomain.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.fanout.HandleMessageCreated(c.Request.Context(), &message)
	if err != nil {
		log.Printf("[API] Error handling message %s: %v", message.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// TokenSweep handles a scheduled sweep trigger.
func (h *Handler) TokenSweep(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		log.Printf("[API] Error running token sweep: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
