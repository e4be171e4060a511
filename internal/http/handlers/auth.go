package handlers

import (
	"errors"
	"net/http"

	"tasktracker/internal/domain"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type signUpRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RedirectTo string `json:"redirectTo"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *domain.User) gin.H {
	return gin.H{"id": u.ID, "email": u.Email}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": providerInvalidSignUp})
		return
	}

	ctx := c.Request.Context()
	res, err := h.Auth.SignUp(ctx, req.Email, req.Password, req.RedirectTo)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": providerWeakPassword})
		case errors.Is(err, domain.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrUserExists.Error()})
		default:
			logger.WithContext(ctx).Error("sign-up failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgAuthFailed})
		}
		return
	}

	msg := msgSignedUp
	if res.ConfirmationRequired {
		msg = msgConfirmationSent
	}
	logger.WithContext(ctx).Info("user signed up", "user_id", res.User.ID, "confirmation_required", res.ConfirmationRequired)
	c.JSON(http.StatusOK, gin.H{
		"message":              msg,
		"confirmationRequired": res.ConfirmationRequired,
		"user":                 userJSON(res.User),
	})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		return
	}

	ctx := c.Request.Context()
	res, err := h.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrEmailNotConfirmed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.WithContext(ctx).Error("sign-in failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgAuthFailed})
		return
	}

	h.setSessionCookie(c, res.Token)
	c.JSON(http.StatusOK, gin.H{
		"user":      userJSON(res.User),
		"expiresAt": res.Session.ExpiresAt,
	})
}

// SignOut revokes the current session, if any, and always clears the cookie.
func (h *Handler) SignOut(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Auth.SignOut(c.Request.Context(), sess); err != nil {
		logger.WithContext(c.Request.Context()).Error("sign-out failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSignOutFailed})
		return
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": msgSignedOut})
}

// ConfirmEmail handles the link sent on sign-up and lands on the home page.
func (h *Handler) ConfirmEmail(c *gin.Context) {
	token, err := uuid.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidConfirmation.Error()})
		return
	}

	u, err := h.Auth.Confirm(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfirmation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidConfirmation.Error()})
			return
		}
		logger.WithContext(c.Request.Context()).Error("email confirmation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgAuthFailed})
		return
	}

	logger.WithContext(c.Request.Context()).Info("email confirmed", "user_id", u.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

// CurrentUser reports the verified session.
func (h *Handler) CurrentUser(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthenticated})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      gin.H{"id": sess.UserID, "email": sess.Email},
		"expiresAt": sess.ExpiresAt,
	})
}
