package handlers

import (
	"net/http"

	"sellboard/internal/db"
	"sellboard/internal/log"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	store *db.Store
}

func NewHealthHandler(store *db.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check GET /healthz
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
