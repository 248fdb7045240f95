package handlers

import (
	"strconv"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
)

const imageCacheControl = "public, max-age=86400"

// writeImage answers GET /api/<resource>/:id/image.
func writeImage(c *gin.Context, img *services.ImageData, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", imageCacheControl)
	c.Header("Content-Length", strconv.Itoa(len(img.Data)))
	c.Data(200, img.ContentType, img.Data)
}
