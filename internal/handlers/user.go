package handlers

import (
	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/middleware"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler manages admin accounts.
type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(db *gorm.DB, cfg *config.JWTConfig) *UserHandler {
	return &UserHandler{authService: services.NewAuthService(db, cfg)}
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	user, err := h.authService.CreateUser(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, "user")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	user, err := h.authService.UpdateUser(middleware.GetUserID(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
