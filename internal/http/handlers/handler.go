package handlers

import (
	"errors"
	"net/http"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/logger"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieConfig controls the session cookie written on sign-in.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	Tasks   *service.TaskService
	Auth    service.AuthProvider
	Cookies CookieConfig
}

func NewHandler(tasks *service.TaskService, auth service.AuthProvider, cookies CookieConfig) *Handler {
	return &Handler{
		Tasks:   tasks,
		Auth:    auth,
		Cookies: cookies,
	}
}

// callerID is the verified caller, or uuid.Nil when the request has no
// session; the service answers uuid.Nil with ErrUnauthenticated.
func callerID(c *gin.Context) uuid.UUID {
	if sess, ok := middleware.CurrentSession(c); ok {
		return sess.UserID
	}
	return uuid.Nil
}

// respondTaskError converts a task operation error into the matching status.
// Unexpected errors are logged and reported with fallback.
func respondTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthenticated})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleRequired})
	default:
		logger.WithContext(c.Request.Context()).Error(fallback, "error", err, "path", c.FullPath(), "task_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.SessionCookie, token, int(h.Cookies.TTL.Seconds()), "/", "", h.Cookies.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.SessionCookie, "", -1, "/", "", h.Cookies.Secure, true)
}
