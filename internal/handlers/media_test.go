package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaRouter(t *testing.T) *gin.Engine {
	db := newTestDB(t)
	r := gin.New()
	for path, h := range map[string]*MediaHandler{
		"/api/facilities":   NewFacilityHandler(db),
		"/api/certificates": NewCertificateHandler(db),
		"/api/gallery":      NewGalleryHandler(db),
	} {
		r.GET(path, h.List)
		r.GET(path+"/:id", h.GetByID)
		r.GET(path+"/:id/image", h.Image)
		r.POST(path, h.Create)
		r.POST(path+"/bulk-delete", h.BulkDelete)
		r.PUT(path, h.Update)
		r.PUT(path+"/:id", h.Update)
		r.DELETE(path, h.Delete)
		r.DELETE(path+"/:id", h.Delete)
	}
	return r
}

func createMedia(t *testing.T, r *gin.Engine, path, title string) services.MediaItem {
	t.Helper()
	body, ct := multipartForm(t, map[string]string{"title": title}, pngBytes(t))
	w := serve(r, "POST", path, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item services.MediaItem
	decode(t, w, &item)
	return item
}

func TestFacilityHandler_CreateValidation(t *testing.T) {
	r := mediaRouter(t)

	body, ct := multipartForm(t, map[string]string{"title": "Dry dock"}, nil)
	w := serve(r, "POST", "/api/facilities", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartForm(t, map[string]string{"title": "Dry dock"}, gifBytes(t))
	w = serve(r, "POST", "/api/facilities", body, ct)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	body, ct = multipartForm(t, map[string]string{}, pngBytes(t))
	w = serve(r, "POST", "/api/facilities", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, "GET", "/api/facilities", nil, "")
	var list []services.MediaItem
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestFacilityHandler_OversizedBody(t *testing.T) {
	r := mediaRouter(t)

	big := make([]byte, services.CertificateImagePolicy.MaxBytes+uploadOverhead+1)
	copy(big, pngBytes(t))
	body, ct := multipartForm(t, map[string]string{"title": "ISO"}, big)
	w := serve(r, "POST", "/api/certificates", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMediaHandler_ImageAndUpdate(t *testing.T) {
	r := mediaRouter(t)
	item := createMedia(t, r, "/api/facilities", "Workshop")
	assert.Contains(t, item.ImageURL, fmt.Sprintf("/api/facilities/%d/image?ts=", item.ID))

	w := serve(r, "GET", fmt.Sprintf("/api/facilities/%d/image", item.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, pngBytes(t), w.Body.Bytes())

	body, ct := multipartForm(t, map[string]string{"description": "Fabrication bay"}, nil)
	w = serve(r, "PUT", fmt.Sprintf("/api/facilities?id=%d", item.ID), body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated services.MediaItem
	decode(t, w, &updated)
	assert.Equal(t, "Workshop", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Fabrication bay", *updated.Description)

	body, ct = multipartForm(t, map[string]string{"title": "x"}, nil)
	w = serve(r, "PUT", "/api/facilities/999", body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, "GET", "/api/facilities/999/image", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMediaHandler_Delete(t *testing.T) {
	r := mediaRouter(t)
	a := createMedia(t, r, "/api/gallery", "Launch")
	b := createMedia(t, r, "/api/gallery", "Tow")
	cert := createMedia(t, r, "/api/certificates", "ISO 9001")

	w := serveJSON(r, "DELETE", "/api/gallery", fmt.Sprintf(`{"ids":[%d,%d,999]}`, a.ID, b.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Deleted int64 `json:"deleted"`
	}
	decode(t, w, &result)
	assert.Equal(t, int64(2), result.Deleted)

	// certificates have no bulk delete; the collection route needs an id
	w = serveJSON(r, "DELETE", "/api/certificates", fmt.Sprintf(`{"ids":[%d]}`, cert.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = serveJSON(r, "POST", "/api/certificates/bulk-delete", fmt.Sprintf(`{"ids":[%d]}`, cert.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, "DELETE", fmt.Sprintf("/api/certificates?id=%d", cert.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, "DELETE", fmt.Sprintf("/api/certificates/%d", cert.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func catalogRouter(t *testing.T) *gin.Engine {
	db := newTestDB(t)
	r := gin.New()
	for path, kind := range map[string]services.CatalogKind{
		"/api/services":           services.KindService,
		"/api/machine-categories": services.KindCategory,
		"/api/machines":           services.KindMachine,
	} {
		h := NewCatalogHandler(db, kind)
		r.GET(path, h.List)
		r.GET(path+"/:id", h.GetByID)
		r.GET(path+"/:id/image", h.Image)
		r.POST(path, h.Create)
		r.PUT(path+"/:id", h.Update)
		r.DELETE(path+"/:id", h.Delete)
	}
	return r
}

func TestCatalogHandler_Hierarchy(t *testing.T) {
	r := catalogRouter(t)

	body, ct := multipartForm(t, map[string]string{"name": "Lifting"}, nil)
	w := serve(r, "POST", "/api/services", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var service services.CatalogItem
	decode(t, w, &service)

	body, ct = multipartForm(t, map[string]string{"name": "Cranes", "service_id": fmt.Sprint(service.ID)}, pngBytes(t))
	w = serve(r, "POST", "/api/machine-categories", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category services.CatalogItem
	decode(t, w, &category)
	assert.True(t, category.HasImage)

	w = serve(r, "GET", fmt.Sprintf("/api/machine-categories?service_id=%d", service.ID), nil, "")
	var list []services.CatalogItem
	decode(t, w, &list)
	assert.Len(t, list, 1)

	w = serve(r, "GET", "/api/machine-categories?service_id=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartForm(t, map[string]string{"name": "Winch", "category_id": "999"}, nil)
	w = serve(r, "POST", "/api/machines", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "referenced record does not exist", env.Message)

	body, ct = multipartForm(t, map[string]string{"name": "Winch", "category_id": "-1"}, nil)
	w = serve(r, "POST", "/api/machines", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, "DELETE", fmt.Sprintf("/api/services/%d", service.ID), nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_PlaceholderImage(t *testing.T) {
	r := catalogRouter(t)

	w := serve(r, "GET", "/api/services/42/image", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.Equal(utils.TransparentPNG, w.Body.Bytes()))

	w = serve(r, "GET", "/api/services/abc/image", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
