// Package middleware holds the gin middleware shared across routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"maven/internal/infrastructure/auth"
	"maven/internal/shared/authorization"
	"maven/internal/shared/logger"
	"maven/internal/shared/utils"
)

// Context keys set by RequireAuth.
const (
	ContextKeyUserURN  = "user_urn"
	ContextKeyUsername = "username"
	ContextKeyUserRole = "user_role"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, logger: logger}
}

// RequireAuth validates the Bearer token and stores the caller's identity on
// the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserURN, claims.Subject)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyUserRole, string(claims.Role))
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := authorization.ParseRole(c.GetString(ContextKeyUserRole))
		if !role.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserURN extracts the authenticated caller's URN from the context.
func UserURN(c *gin.Context) (string, bool) {
	urn := c.GetString(ContextKeyUserURN)
	return urn, urn != ""
}
