package handlers

import (
	"net/http"
	"time"

	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/middleware"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService  *services.AuthService
	cookieName   string
	cookieSecure bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService:  services.NewAuthService(db, cfg),
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
	}
}

// sessionUser is the session payload returned to the client.
type sessionUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles user login and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, services.ErrInvalidCredentials)
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, result.Token, int(h.authService.SessionTTL().Seconds()))
	response.Success(c, gin.H{
		"user": sessionUser{
			ID:        result.User.ID,
			Email:     result.User.Email,
			Role:      result.User.Role,
			ExpiresAt: result.ExpireAt,
		},
		"redirect": middleware.SafeNext(c.Query("next")),
	})
}

// Me returns the payload of the current session
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	user := sessionUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	response.Success(c, gin.H{"user": user})
}

// Logout clears the session cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.Success(c, gin.H{"message": "logged out successfully"})
}

// ChangePassword changes the password of the current user
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "old_password and new_password (min 6 characters) are required")
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password changed successfully"})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, value, maxAge, "/", "", h.cookieSecure, true)
}
