package handlers

import (
	"net/http"
	"time"

	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user, opens a session and sets the auth cookie
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.Verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Log.Info("login rejected", zap.String("email", req.Email), zap.Error(err))
		h.respondError(c, err)
		return
	}

	token, _, err := h.Sessions.Issue(c.Request.Context(), models.PrincipalOf(user))
	if err != nil {
		h.Log.Error("failed to issue session", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	maxAge := int(h.Sessions.TTL() / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout revokes the caller's session and clears the cookie. It succeeds
// even without a live session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Revoke(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated principal
func (h *Handler) Me(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}
