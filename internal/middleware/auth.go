package middleware

import (
	"errors"
	"net/http"

	"sellboard/internal/log"
	"sellboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
)

// AuthRequired 要求请求已登录
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session's account and stores it on the context.
// Sessions are issued by the account service; this only reads them.
func LoadUser(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserKey)

		if userID != nil {
			var account models.Account
			err := conn.WithContext(c.Request.Context()).First(&account, userID).Error
			if err == nil {
				c.Set(CheckUserKey, &account)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Log.WithError(err).Warn("load session user failed")
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged in account, if any.
func CurrentUser(c *gin.Context) (*models.Account, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*models.Account)
	return account, ok
}

// RequesterID returns the logged in account id or nil for anonymous requests.
func RequesterID(c *gin.Context) *uint {
	if account, ok := CurrentUser(c); ok {
		id := account.ID
		return &id
	}
	return nil
}
