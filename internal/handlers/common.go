package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gin-gonic/gin"
)

// uploadOverhead is the allowance for multipart framing and text fields on
// top of the largest image an entity accepts.
const uploadOverhead = 1 << 20

// formMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const formMemory = 32 << 20

type bulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// resourceID reads the record id from the path or, for the collection
// routes, from ?id=. A missing or non-positive id is a 400.
func resourceID(c *gin.Context, what string) (uint, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+what+" id")
		return 0, false
	}
	return uint(id), true
}

// hasQueryID reports whether a collection route addresses a single record.
func hasQueryID(c *gin.Context) bool {
	_, ok := c.GetQuery("id")
	return ok
}

// bindIDs reads a bulk delete body.
func bindIDs(c *gin.Context) ([]uint, bool) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.BadRequest(c, "ids must be a non-empty array of record ids")
		return nil, false
	}
	for _, id := range req.IDs {
		if id == 0 {
			response.BadRequest(c, "ids must be positive integers")
			return nil, false
		}
	}
	return req.IDs, true
}

// limitBody caps the request body so oversized uploads fail while parsing.
func limitBody(c *gin.Context, maxImage int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImage+uploadOverhead)
}

// formString returns a pointer to a submitted form value, nil when the field
// was not sent.
func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// formUint parses an optional positive integer form field.
func formUint(c *gin.Context, key string) (*uint, error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil || n == 0 {
		return nil, response.NewBadRequest(key + " must be a positive integer")
	}
	id := uint(n)
	return &id, nil
}

// formImage opens the uploaded "image" file. A request without one yields a
// nil file; the returned closer is always safe to call.
func formImage(c *gin.Context) (*services.FileInput, io.Closer, error) {
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nopCloser{}, nil
	case err != nil:
		return nil, nopCloser{}, uploadError(err)
	}
	file, closer, err := services.FileFromHeader(fh)
	if err != nil {
		return nil, nopCloser{}, err
	}
	return file, closer, nil
}

// parseForm parses the multipart body, mapping an oversized body to 413.
func parseForm(c *gin.Context) error {
	if err := c.Request.ParseMultipartForm(formMemory); err != nil &&
		!errors.Is(err, http.ErrNotMultipart) {
		return uploadError(err)
	}
	return nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return response.NewPayloadTooLarge("upload exceeds the allowed size")
	}
	return response.NewBadRequest("malformed form data")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
