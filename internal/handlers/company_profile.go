package handlers

import (
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompanyProfileHandler struct {
	profileService *services.CompanyProfileService
}

func NewCompanyProfileHandler(db *gorm.DB) *CompanyProfileHandler {
	return &CompanyProfileHandler{profileService: services.NewCompanyProfileService(db)}
}

// GET /api/company-profile
func (h *CompanyProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// Save creates the profile or replaces the stored one
// PUT /api/company-profile
func (h *CompanyProfileHandler) Save(c *gin.Context) {
	var req services.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	profile, err := h.profileService.Save(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}
