package middleware

import (
	"context"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the session token
const CookieName = "auth_token"

const principalKey = "principal"

// SessionResolver turns a session token into the principal it was issued to
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Principal, error)
}

// TokenFromRequest reads the session token from the auth cookie, falling
// back to an Authorization: Bearer header
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// AuthRequired resolves the session token and injects the principal into
// the context. Missing, invalid and expired sessions are rejected with 401.
func AuthRequired(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := sessions.Resolve(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Set("user_id", principal.ID)
		c.Next()
	}
}

// GetPrincipal extracts the caller from context. ok is false on routes
// that do not run AuthRequired.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := val.(models.Principal)
	return p, ok
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
}
