package response

import (
	"errors"
	"net/http"

	"github.com/baharimarine/compro/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Response is the unified API response format. Code is 0 on success and the
// HTTP status otherwise.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError is an expected failure that is safe to show to the client.
type AppError struct {
	HTTPStatus int
	Message    string
	// Field names the offending request field for validation failures.
	Field string
}

func (e *AppError) Error() string {
	return e.Message
}

// OnField returns a copy of e bound to the named request field.
func (e *AppError) OnField(field string) *AppError {
	cp := *e
	cp.Field = field
	return &cp
}

func newError(status int, msg string) *AppError {
	return &AppError{HTTPStatus: status, Message: msg}
}

func NewBadRequest(msg string) *AppError {
	return newError(http.StatusBadRequest, msg)
}

func NewUnauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, msg)
}

func NewNotFound(msg string) *AppError {
	return newError(http.StatusNotFound, msg)
}

func NewConflict(msg string) *AppError {
	return newError(http.StatusConflict, msg)
}

func NewPayloadTooLarge(msg string) *AppError {
	return newError(http.StatusRequestEntityTooLarge, msg)
}

func NewUnsupportedMediaType(msg string) *AppError {
	return newError(http.StatusUnsupportedMediaType, msg)
}

// StatusOf returns the HTTP status an error would be answered with.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

// Error writes err. AppErrors are sent as they are; anything else is logged
// and answered with a bare 500 so storage details never reach the client.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Code:    appErr.HTTPStatus,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}
	logger.Ctx(c).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unexpected error")
	fail(c, http.StatusInternalServerError, "internal server error")
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Message: msg})
}

func BadRequest(c *gin.Context, msg string)      { fail(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string)    { fail(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string)       { fail(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)        { fail(c, http.StatusNotFound, msg) }
func TooManyRequests(c *gin.Context, msg string) { fail(c, http.StatusTooManyRequests, msg) }
