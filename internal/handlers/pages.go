package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML []byte

// PublicPages are the browser routes rendered by the single page shell.
var PublicPages = []string{"/", "/services", "/gallery", "/certificates", "/login"}

// Page serves the application shell. Routing happens in the browser.
func Page(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
