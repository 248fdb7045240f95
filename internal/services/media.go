package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

// MediaForm is a create or update submission for facilities, certificates
// and gallery images. Nil fields are left untouched on update.
type MediaForm struct {
	Title       *string
	Description *string
	Image       *FileInput
}

// MediaItem is the API representation of an image-backed entity.
type MediaItem struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// mediaColumns validates the form and returns the columns to write. On
// create the title and the image are mandatory.
func mediaColumns(form MediaForm, policy ImagePolicy, create bool) (map[string]interface{}, *models.ImageBlob, error) {
	columns := map[string]interface{}{}

	if form.Title != nil {
		title := strings.TrimSpace(*form.Title)
		if title == "" {
			return nil, nil, response.NewBadRequest("title must not be empty")
		}
		columns["title"] = title
	} else if create {
		return nil, nil, response.NewBadRequest("title is required")
	}
	if form.Description != nil {
		columns["description"] = strings.TrimSpace(*form.Description)
	}

	if !create {
		policy.Required = false
	}
	blob, err := ReadImage(form.Image, policy)
	if err != nil {
		return nil, nil, err
	}
	if blob != nil {
		for k, v := range imageColumns(blob) {
			columns[k] = v
		}
	}
	return columns, blob, nil
}

func stringColumn(columns map[string]interface{}, key string) string {
	v, _ := columns[key].(string)
	return v
}

// updateMedia checks the row exists, then writes the submitted columns.
func updateMedia(db *gorm.DB, model interface{}, id uint, what string, form MediaForm, policy ImagePolicy) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	if count == 0 {
		return notFound(what)
	}
	columns, _, err := mediaColumns(form, policy, false)
	if err != nil {
		return err
	}
	if err := db.Model(model).Where("id = ?", id).Updates(columns).Error; err != nil {
		return writeError(err, what)
	}
	return nil
}

type FacilityService struct {
	db *gorm.DB
}

func NewFacilityService(db *gorm.DB) *FacilityService {
	return &FacilityService{db: db}
}

func facilityItem(f *models.Facility) MediaItem {
	description := f.Description
	return MediaItem{
		ID:          f.ID,
		Title:       f.Title,
		Description: &description,
		ImageURL:    imageURL("facilities", f.ID, f.UpdatedAt),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (s *FacilityService) List() ([]MediaItem, error) {
	var rows []models.Facility
	if err := s.db.Omit("image").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	items := make([]MediaItem, 0, len(rows))
	for i := range rows {
		items = append(items, facilityItem(&rows[i]))
	}
	return items, nil
}

func (s *FacilityService) Get(id uint) (*MediaItem, error) {
	var f models.Facility
	if err := s.db.Omit("image").First(&f, id).Error; err != nil {
		return nil, findError(err, "facility")
	}
	item := facilityItem(&f)
	return &item, nil
}

func (s *FacilityService) Create(form MediaForm) (*MediaItem, error) {
	columns, blob, err := mediaColumns(form, FacilityImagePolicy, true)
	if err != nil {
		return nil, err
	}
	f := models.Facility{
		Title:       stringColumn(columns, "title"),
		Description: stringColumn(columns, "description"),
		ImageBlob:   *blob,
	}
	if err := s.db.Create(&f).Error; err != nil {
		return nil, writeError(err, "facility")
	}
	item := facilityItem(&f)
	return &item, nil
}

func (s *FacilityService) Update(id uint, form MediaForm) (*MediaItem, error) {
	if err := updateMedia(s.db, &models.Facility{}, id, "facility", form, FacilityImagePolicy); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *FacilityService) Delete(id uint) error {
	return deleteByID(s.db, &models.Facility{}, id, "facility")
}

func (s *FacilityService) BulkDelete(ids []uint) (int64, error) {
	return bulkDelete(s.db, &models.Facility{}, ids, "facilities")
}

func (s *FacilityService) Image(id uint) (*ImageData, error) {
	return resolveImage(s.db, &models.Facility{}, id, "facility", FacilityImagePolicy)
}

type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

func certificateItem(c *models.Certificate) MediaItem {
	return MediaItem{
		ID:        c.ID,
		Title:     c.Title,
		ImageURL:  imageURL("certificates", c.ID, c.UpdatedAt),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *CertificateService) List() ([]MediaItem, error) {
	var rows []models.Certificate
	if err := s.db.Omit("image").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	items := make([]MediaItem, 0, len(rows))
	for i := range rows {
		items = append(items, certificateItem(&rows[i]))
	}
	return items, nil
}

func (s *CertificateService) Get(id uint) (*MediaItem, error) {
	var c models.Certificate
	if err := s.db.Omit("image").First(&c, id).Error; err != nil {
		return nil, findError(err, "certificate")
	}
	item := certificateItem(&c)
	return &item, nil
}

func (s *CertificateService) Create(form MediaForm) (*MediaItem, error) {
	form.Description = nil
	columns, blob, err := mediaColumns(form, CertificateImagePolicy, true)
	if err != nil {
		return nil, err
	}
	c := models.Certificate{Title: stringColumn(columns, "title"), ImageBlob: *blob}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, writeError(err, "certificate")
	}
	item := certificateItem(&c)
	return &item, nil
}

func (s *CertificateService) Update(id uint, form MediaForm) (*MediaItem, error) {
	form.Description = nil
	if err := updateMedia(s.db, &models.Certificate{}, id, "certificate", form, CertificateImagePolicy); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *CertificateService) Delete(id uint) error {
	return deleteByID(s.db, &models.Certificate{}, id, "certificate")
}

func (s *CertificateService) Image(id uint) (*ImageData, error) {
	return resolveImage(s.db, &models.Certificate{}, id, "certificate", CertificateImagePolicy)
}

type GalleryService struct {
	db *gorm.DB
}

func NewGalleryService(db *gorm.DB) *GalleryService {
	return &GalleryService{db: db}
}

func galleryItem(g *models.GalleryItem) MediaItem {
	return MediaItem{
		ID:        g.ID,
		Title:     g.Title,
		ImageURL:  imageURL("gallery", g.ID, g.UpdatedAt),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// List returns gallery images newest first.
func (s *GalleryService) List() ([]MediaItem, error) {
	var rows []models.GalleryItem
	if err := s.db.Omit("image").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	items := make([]MediaItem, 0, len(rows))
	for i := range rows {
		items = append(items, galleryItem(&rows[i]))
	}
	return items, nil
}

func (s *GalleryService) Get(id uint) (*MediaItem, error) {
	var g models.GalleryItem
	if err := s.db.Omit("image").First(&g, id).Error; err != nil {
		return nil, findError(err, "gallery image")
	}
	item := galleryItem(&g)
	return &item, nil
}

func (s *GalleryService) Create(form MediaForm) (*MediaItem, error) {
	form.Description = nil
	columns, blob, err := mediaColumns(form, GalleryImagePolicy, true)
	if err != nil {
		return nil, err
	}
	g := models.GalleryItem{Title: stringColumn(columns, "title"), ImageBlob: *blob}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, writeError(err, "gallery image")
	}
	item := galleryItem(&g)
	return &item, nil
}

func (s *GalleryService) Update(id uint, form MediaForm) (*MediaItem, error) {
	form.Description = nil
	if err := updateMedia(s.db, &models.GalleryItem{}, id, "gallery image", form, GalleryImagePolicy); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *GalleryService) Delete(id uint) error {
	return deleteByID(s.db, &models.GalleryItem{}, id, "gallery image")
}

func (s *GalleryService) BulkDelete(ids []uint) (int64, error) {
	return bulkDelete(s.db, &models.GalleryItem{}, ids, "gallery images")
}

func (s *GalleryService) Image(id uint) (*ImageData, error) {
	return resolveImage(s.db, &models.GalleryItem{}, id, "gallery image", GalleryImagePolicy)
}
