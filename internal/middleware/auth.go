package middleware

import (
	"strings"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextClaims = "claims"
)

// cookieSession verifies the session cookie only.
func cookieSession(c *gin.Context, cookieName string) (*utils.Claims, bool) {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// sessionClaims reads the session cookie, falling back to a bearer token for
// non-browser clients, and verifies it.
func sessionClaims(c *gin.Context, cookieName string) (*utils.Claims, bool) {
	if claims, ok := cookieSession(c, cookieName); ok {
		return claims, true
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := utils.ParseToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// AuthRequired rejects requests without a valid session.
func AuthRequired(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, cookieName)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// AdminRequired is a middleware that checks for admin role. The role comes
// from the signed session and is not re-read from the database.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists || role != models.RoleAdmin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetEmail gets the current user email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}

// GetClaims returns the verified session payload, if any.
func GetClaims(c *gin.Context) *utils.Claims {
	if claims, exists := c.Get(ContextClaims); exists {
		return claims.(*utils.Claims)
	}
	return nil
}
