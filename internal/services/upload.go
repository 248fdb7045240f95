package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"strings"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeWebP = "image/webp"
	mimeGIF  = "image/gif"
)

// ImagePolicy describes what an entity accepts as its image.
type ImagePolicy struct {
	Required bool
	MaxBytes int64
	Allowed  []string
	Fallback bool // serve a transparent placeholder when no image is stored
}

var (
	ServiceImagePolicy     = ImagePolicy{MaxBytes: 5 << 20, Allowed: []string{mimePNG, mimeJPEG, mimeWebP}, Fallback: true}
	CategoryImagePolicy    = ImagePolicy{MaxBytes: 10 << 20, Allowed: []string{mimePNG, mimeJPEG, mimeWebP}, Fallback: true}
	MachineImagePolicy     = ImagePolicy{MaxBytes: 10 << 20, Allowed: []string{mimePNG, mimeJPEG, mimeWebP}, Fallback: true}
	FacilityImagePolicy    = ImagePolicy{Required: true, MaxBytes: 30 << 20, Allowed: []string{mimePNG, mimeJPEG, mimeWebP}}
	CertificateImagePolicy = ImagePolicy{Required: true, MaxBytes: 15 << 20, Allowed: []string{mimePNG, mimeJPEG}}
	GalleryImagePolicy     = ImagePolicy{Required: true, MaxBytes: 20 << 20, Allowed: []string{mimePNG, mimeJPEG, mimeWebP, mimeGIF}}
)

// FileInput is an uploaded file as received from the client.
type FileInput struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// FileFromHeader opens a multipart file. The caller closes the returned closer.
func FileFromHeader(fh *multipart.FileHeader) (*FileInput, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	return &FileInput{Name: fh.Filename, Size: fh.Size, Reader: f}, f, nil
}

// ReadImage validates an upload against the policy and returns the blob to
// store. A nil file yields a nil blob unless the policy requires an image.
func ReadImage(file *FileInput, policy ImagePolicy) (*models.ImageBlob, error) {
	if file == nil || file.Reader == nil {
		if policy.Required {
			return nil, response.NewBadRequest("image is required")
		}
		return nil, nil
	}
	if file.Size > policy.MaxBytes {
		return nil, tooLarge(policy)
	}

	data, err := io.ReadAll(io.LimitReader(file.Reader, policy.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > policy.MaxBytes {
		return nil, tooLarge(policy)
	}
	if len(data) == 0 {
		if policy.Required {
			return nil, response.NewBadRequest("image is required")
		}
		return nil, nil
	}

	detected := mimetype.Detect(data)
	mime := ""
	for _, allowed := range policy.Allowed {
		if detected.Is(allowed) {
			mime = allowed
			break
		}
	}
	if mime == "" {
		return nil, response.NewUnsupportedMediaType(fmt.Sprintf(
			"unsupported image type %s, allowed: %s", detected.String(), strings.Join(policy.Allowed, ", ")))
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, response.NewBadRequest("image could not be decoded")
	}

	return &models.ImageBlob{Image: data, ImageMime: mime, ImageSize: int64(len(data))}, nil
}

func tooLarge(policy ImagePolicy) error {
	return response.NewPayloadTooLarge(fmt.Sprintf("image exceeds %d MB", policy.MaxBytes>>20))
}

// imageColumns is the update map that replaces a stored image.
func imageColumns(blob *models.ImageBlob) map[string]interface{} {
	return map[string]interface{}{
		"image":      blob.Image,
		"image_mime": blob.ImageMime,
		"image_size": blob.ImageSize,
	}
}

// ImageData is an image ready to be written to the client.
type ImageData struct {
	Data        []byte
	ContentType string
}

var placeholderImage = ImageData{Data: utils.TransparentPNG, ContentType: mimePNG}

// resolveImage loads the image of one row for serving. Entities whose policy
// has a fallback get the placeholder instead of a 404.
func resolveImage(db *gorm.DB, model interface{}, id uint, what string, policy ImagePolicy) (*ImageData, error) {
	var blob models.ImageBlob
	err := db.Model(model).
		Select("image", "image_mime", "image_size").
		Where("id = ?", id).
		Take(&blob).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load %s image: %w", what, err)
	}
	if err != nil || len(blob.Image) == 0 {
		if policy.Fallback {
			img := placeholderImage
			return &img, nil
		}
		return nil, notFound(what + " image")
	}

	contentType := blob.ImageMime
	if contentType == "" {
		contentType = utils.SniffImageType(blob.Image)
	}
	return &ImageData{Data: blob.Image, ContentType: contentType}, nil
}
