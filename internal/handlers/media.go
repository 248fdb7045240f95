package handlers

import (
	"io"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// mediaService is implemented by the facility, certificate and gallery
// services.
type mediaService interface {
	List() ([]services.MediaItem, error)
	Get(id uint) (*services.MediaItem, error)
	Create(form services.MediaForm) (*services.MediaItem, error)
	Update(id uint, form services.MediaForm) (*services.MediaItem, error)
	Delete(id uint) error
	Image(id uint) (*services.ImageData, error)
}

type bulkDeleter interface {
	BulkDelete(ids []uint) (int64, error)
}

// MediaHandler serves a titled, image-backed resource.
type MediaHandler struct {
	what    string
	policy  services.ImagePolicy
	service mediaService
}

func NewFacilityHandler(db *gorm.DB) *MediaHandler {
	return &MediaHandler{what: "facility", policy: services.FacilityImagePolicy, service: services.NewFacilityService(db)}
}

func NewCertificateHandler(db *gorm.DB) *MediaHandler {
	return &MediaHandler{what: "certificate", policy: services.CertificateImagePolicy, service: services.NewCertificateService(db)}
}

func NewGalleryHandler(db *gorm.DB) *MediaHandler {
	return &MediaHandler{what: "gallery item", policy: services.GalleryImagePolicy, service: services.NewGalleryService(db)}
}

// GET /api/<resource>
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.service.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// GET /api/<resource>/:id
func (h *MediaHandler) GetByID(c *gin.Context) {
	id, ok := resourceID(c, h.what)
	if !ok {
		return
	}
	item, err := h.service.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// POST /api/<resource> (multipart)
func (h *MediaHandler) Create(c *gin.Context) {
	form, closer, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	item, err := h.service.Create(form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// PUT /api/<resource>/:id, PUT /api/<resource>?id= (multipart)
func (h *MediaHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, h.what)
	if !ok {
		return
	}

	form, closer, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	item, err := h.service.Update(id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Delete removes one record. Resources that support it also accept a bulk
// body on the collection route.
// DELETE /api/<resource>/:id, DELETE /api/<resource>?id=, DELETE /api/<resource> {"ids":[...]}
func (h *MediaHandler) Delete(c *gin.Context) {
	if c.Param("id") == "" && !hasQueryID(c) {
		if _, ok := h.service.(bulkDeleter); ok {
			h.BulkDelete(c)
			return
		}
	}

	id, ok := resourceID(c, h.what)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": 1})
}

// POST /api/<resource>/bulk-delete
func (h *MediaHandler) BulkDelete(c *gin.Context) {
	bulk, ok := h.service.(bulkDeleter)
	if !ok {
		response.NotFound(c, "bulk delete is not available for this resource")
		return
	}
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	deleted, err := bulk.BulkDelete(ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// GET /api/<resource>/:id/image
func (h *MediaHandler) Image(c *gin.Context) {
	id, ok := resourceID(c, h.what)
	if !ok {
		return
	}
	img, err := h.service.Image(id)
	writeImage(c, img, err)
}

func (h *MediaHandler) bindForm(c *gin.Context) (services.MediaForm, io.Closer, error) {
	limitBody(c, h.policy.MaxBytes)
	if err := parseForm(c); err != nil {
		return services.MediaForm{}, nopCloser{}, err
	}

	form := services.MediaForm{
		Title:       formString(c, "title"),
		Description: formString(c, "description"),
	}
	file, closer, err := formImage(c)
	if err != nil {
		return form, nopCloser{}, err
	}
	form.Image = file
	return form, closer, nil
}
