package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath = "/login"
	AdminPath = "/admin"
)

// SessionGate guards the admin pages. Without a valid session cookie the
// browser is sent to the login page with the requested location in "next";
// a signed-in visitor opening the login page goes straight to the admin.
// Any valid session passes; roles are checked by the API, not here.
func SessionGate(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, authenticated := cookieSession(c, cookieName)

		switch {
		case isAdminPage(path) && !authenticated:
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		case path == LoginPath && authenticated:
			c.Redirect(http.StatusFound, AdminPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func isAdminPage(path string) bool {
	return path == AdminPath || strings.HasPrefix(path, AdminPath+"/")
}

// SafeNext returns the post-login target, accepting only local paths.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return AdminPath
	}
	return next
}
