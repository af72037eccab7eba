package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/auth"
)

// Context keys for values stored in gin.Context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyClaims    = "claims"
	ContextKeyRequestID = "request_id"
)

// Authenticate resolves the caller from an optional bearer token. A request
// without an Authorization header continues anonymously; a header that is
// present but malformed or invalid is rejected with 401.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID())
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers without role: 401 when anonymous, 403
// otherwise.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !HasRole(c, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's opaque id, or "" when the
// request is anonymous.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetClaims returns the verified token claims, or nil for anonymous
// requests.
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// HasRole reports whether the caller's token carries role. Anonymous
// callers have no roles.
func HasRole(c *gin.Context, role string) bool {
	claims := GetClaims(c)
	return claims != nil && claims.HasRole(role)
}
