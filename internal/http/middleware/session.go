package middleware

import (
	"net/http"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Session resolves the caller once per request and stores it in the context.
// A missing session is not an error here; RequireSession decides.
func Session(v *service.SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := v.Verify(c.Request.Context(), c.Request)
		if err != nil {
			logger.WithContext(c.Request.Context()).Error("session verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "認証の確認に失敗しました"})
			return
		}
		if sess != nil {
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

// RequireSession aborts with 401 when Session found no caller.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "認証が必要です"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by Session.
func CurrentSession(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*domain.Session)
	return sess, ok && sess != nil
}
