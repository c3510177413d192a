package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "marketplace_token"
)

// PrincipalResolver turns an access token into the actor behind the request.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (model.Principal, error)
}

// AuthRequired resolves the caller before any handler runs.
// Deactivated accounts are stopped here with 403.
func AuthRequired(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		principal, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domainErrors.ErrUnauthenticated):
				abort(c, http.StatusUnauthorized, "authentication required")
			case errors.Is(err, domainErrors.ErrInactiveAccount):
				abort(c, http.StatusForbidden, "account is inactive")
			default:
				abort(c, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// RequireRoles lets through principals holding one of roles.
// It must run after AuthRequired.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := c.Get(PrincipalContextKey)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		p, _ := principal.(model.Principal)
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "forbidden")
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
