package handlers

import (
	"io"
	"strconv"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler serves one level of the service > category > machine
// hierarchy.
type CatalogHandler struct {
	kind           services.CatalogKind
	catalogService *services.CatalogService
}

func NewCatalogHandler(db *gorm.DB, kind services.CatalogKind) *CatalogHandler {
	return &CatalogHandler{
		kind:           kind,
		catalogService: services.NewCatalogService(db),
	}
}

// List returns all records of the kind. Categories and machines accept their
// parent id as a query filter.
// GET /api/services, /api/machine-categories?service_id=, /api/machines?category_id=
func (h *CatalogHandler) List(c *gin.Context) {
	var parentID uint
	if col := h.kind.ParentColumn(); col != "" {
		if raw := c.Query(col); raw != "" {
			n, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || n == 0 {
				response.BadRequest(c, col+" must be a positive integer")
				return
			}
			parentID = uint(n)
		}
	}

	items, err := h.catalogService.List(h.kind, parentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// GET /api/<resource>/:id
func (h *CatalogHandler) GetByID(c *gin.Context) {
	id, ok := resourceID(c, h.kind.String())
	if !ok {
		return
	}

	item, err := h.catalogService.Get(h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, item)
}

// POST /api/<resource> (multipart)
func (h *CatalogHandler) Create(c *gin.Context) {
	form, closer, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	item, err := h.catalogService.Create(h.kind, form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, item)
}

// PUT /api/<resource>/:id, PUT /api/<resource>?id= (multipart)
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, h.kind.String())
	if !ok {
		return
	}

	form, closer, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()

	item, err := h.catalogService.Update(h.kind, id, form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, item)
}

// DELETE /api/<resource>/:id, DELETE /api/<resource>?id=
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := resourceID(c, h.kind.String())
	if !ok {
		return
	}

	if err := h.catalogService.Delete(h.kind, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": 1})
}

// GET /api/<resource>/:id/image
func (h *CatalogHandler) Image(c *gin.Context) {
	id, ok := resourceID(c, h.kind.String())
	if !ok {
		return
	}
	img, err := h.catalogService.Image(h.kind, id)
	writeImage(c, img, err)
}

func (h *CatalogHandler) bindForm(c *gin.Context) (services.CatalogForm, io.Closer, error) {
	limitBody(c, h.kind.Policy().MaxBytes)
	if err := parseForm(c); err != nil {
		return services.CatalogForm{}, nopCloser{}, err
	}

	form := services.CatalogForm{
		Name:        formString(c, "name"),
		Description: formString(c, "description"),
	}
	if col := h.kind.ParentColumn(); col != "" {
		parentID, err := formUint(c, col)
		if err != nil {
			return form, nopCloser{}, err
		}
		form.ParentID = parentID
	}

	file, closer, err := formImage(c)
	if err != nil {
		return form, nopCloser{}, err
	}
	form.Image = file
	return form, closer, nil
}
