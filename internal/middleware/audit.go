package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	auditBodyLimit = 2000
	// auditReadLimit caps how much of a request body the audit log buffers.
	auditReadLimit = 8 << 10
)

var sensitiveKeys = []string{"password", "old_password", "new_password", "token", "secret"}

// AuditLog records admin write operations to system_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if !isWriteMethod(method) {
			c.Next()
			return
		}

		body := captureBody(c)

		c.Next()

		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)

		meta := services.LogMeta{
			RequestID: c.GetString(logger.RequestIDKey),
			Status:    status,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Extra: map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"body":   body,
			},
		}
		if userID := GetUserID(c); userID > 0 {
			meta.UserID = &userID
		}

		message := formatAuditMessage(GetEmail(c), method, c.Request.URL.Path, status)
		switch {
		case status >= http.StatusInternalServerError:
			services.LogError(module, action, message, meta)
		case status >= http.StatusBadRequest:
			services.LogWarning(module, action, message, meta)
		default:
			services.LogInfo(module, action, message, meta)
		}
	}
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// captureBody returns a masked snippet of a JSON body and restores it for the
// handler. Uploads are not read.
func captureBody(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}
	body := c.Request.Body
	raw, err := io.ReadAll(io.LimitReader(body, auditReadLimit))
	c.Request.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), body), Closer: body}
	if err != nil {
		return ""
	}
	snippet := maskSensitiveFields(string(raw))
	if len(snippet) > auditBodyLimit {
		snippet = snippet[:auditBodyLimit] + "...[truncated]"
	}
	return snippet
}

// replayBody hands the handler the buffered prefix followed by the unread rest.
type replayBody struct {
	io.Reader
	io.Closer
}

// parseRouteInfo extracts module and action from a route pattern,
// e.g. "/api/machine-categories/:id" + PUT gives "Machine Categories", "Update".
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	module = strings.SplitN(path, "/", 2)[0]
	if module == "" {
		module = "unknown"
	}

	words := strings.Split(module, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	module = strings.Join(words, " ")

	switch {
	case strings.HasSuffix(fullPath, "/bulk-delete"):
		action = "BulkDelete"
	case strings.HasSuffix(fullPath, "/import"):
		action = "Import"
	case method == http.MethodPost:
		action = "Create"
	case method == http.MethodPut, method == http.MethodPatch:
		action = "Update"
	case method == http.MethodDelete:
		action = "Delete"
	default:
		action = method
	}
	return module, action
}

func formatAuditMessage(email, method, path string, status int) string {
	if email == "" {
		email = "anonymous"
	}
	outcome := "OK"
	if status >= http.StatusBadRequest {
		outcome = "Failed"
	}
	return fmt.Sprintf("[Audit] %s %s %s -> %s", email, method, path, outcome)
}

// maskSensitiveFields replaces sensitive values in a JSON body.
func maskSensitiveFields(body string) string {
	for _, key := range sensitiveKeys {
		body = maskJSONValue(body, key)
	}
	return body
}

// maskJSONValue masks every quoted string value stored under key.
func maskJSONValue(body, key string) string {
	needle := "\"" + key + "\""
	var out strings.Builder
	rest := body
	for {
		idx := strings.Index(rest, needle)
		if idx == -1 {
			out.WriteString(rest)
			return out.String()
		}
		cut := idx + len(needle)
		out.WriteString(rest[:cut])
		rest = rest[cut:]

		i := 0
		for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t' || rest[i] == ':') {
			i++
		}
		if i == 0 || !strings.Contains(rest[:i], ":") || i >= len(rest) || rest[i] != '"' {
			continue
		}
		end := strings.Index(rest[i+1:], "\"")
		if end == -1 {
			continue
		}
		out.WriteString(rest[:i+1])
		out.WriteString("***")
		rest = rest[i+1+end:]
	}
}
