package handlers

import (
	"errors"
	"net/http"

	"sellboard/internal/db"
	"sellboard/internal/log"
	"sellboard/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	msgSuccess = "success"
)

// respondError 把存储层错误映射成 HTTP 状态码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidParam):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
