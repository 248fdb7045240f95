package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

// CatalogKind selects one of the three levels of the equipment catalog:
// services contain machine categories, which contain machines.
type CatalogKind int

const (
	KindService CatalogKind = iota + 1
	KindCategory
	KindMachine
)

func (k CatalogKind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindCategory:
		return "machine category"
	case KindMachine:
		return "machine"
	}
	return fmt.Sprintf("CatalogKind(%d)", int(k))
}

// Resource is the URL segment the kind is served under.
func (k CatalogKind) Resource() string {
	switch k {
	case KindService:
		return "services"
	case KindCategory:
		return "machine-categories"
	case KindMachine:
		return "machines"
	}
	return ""
}

func (k CatalogKind) Policy() ImagePolicy {
	switch k {
	case KindService:
		return ServiceImagePolicy
	case KindCategory:
		return CategoryImagePolicy
	case KindMachine:
		return MachineImagePolicy
	}
	return ImagePolicy{}
}

// ParentColumn is the foreign key to the level above, empty for services.
// Forms carry the parent id under the same name.
func (k CatalogKind) ParentColumn() string {
	switch k {
	case KindCategory:
		return "service_id"
	case KindMachine:
		return "category_id"
	}
	return ""
}

// child is the level below k. Machines have none.
func (k CatalogKind) child() (CatalogKind, bool) {
	switch k {
	case KindService:
		return KindCategory, true
	case KindCategory:
		return KindMachine, true
	}
	return 0, false
}

func (k CatalogKind) model() (interface{}, error) {
	switch k {
	case KindService:
		return &models.Service{}, nil
	case KindCategory:
		return &models.MachineCategory{}, nil
	case KindMachine:
		return &models.Machine{}, nil
	}
	return nil, errUnknownKind(k)
}

func errUnknownKind(k CatalogKind) error {
	return fmt.Errorf("unknown catalog kind %d", int(k))
}

// CatalogForm is a create or update submission for any catalog kind. Nil
// fields are left untouched on update.
type CatalogForm struct {
	Name        *string
	Description *string
	ParentID    *uint
	Image       *FileInput
}

// CatalogPayload is what gets persisted: Record for inserts, Columns for updates.
type CatalogPayload struct {
	Record  interface{}
	Columns map[string]interface{}
}

// BuildCatalogPayload validates a form and turns it into the row for the kind.
// With create set, name and parent are required.
func BuildCatalogPayload(kind CatalogKind, form CatalogForm, create bool) (*CatalogPayload, error) {
	columns := map[string]interface{}{}

	var name, description string
	if form.Name != nil {
		name = strings.TrimSpace(*form.Name)
		if name == "" {
			return nil, response.NewBadRequest("name must not be empty")
		}
		columns["name"] = name
	} else if create {
		return nil, response.NewBadRequest("name is required")
	}
	if form.Description != nil {
		description = strings.TrimSpace(*form.Description)
		columns["description"] = description
	}

	var parentID uint
	if col := kind.ParentColumn(); col != "" {
		if form.ParentID != nil {
			if *form.ParentID == 0 {
				return nil, response.NewBadRequest(col + " must be a positive integer")
			}
			parentID = *form.ParentID
			columns[col] = parentID
		} else if create {
			return nil, response.NewBadRequest(col + " is required")
		}
	}

	blob, err := ReadImage(form.Image, kind.Policy())
	if err != nil {
		return nil, err
	}
	var image models.ImageBlob
	if blob != nil {
		image = *blob
		for k, v := range imageColumns(blob) {
			columns[k] = v
		}
	}

	payload := &CatalogPayload{Columns: columns}
	switch kind {
	case KindService:
		payload.Record = &models.Service{Name: name, Description: description, ImageBlob: image}
	case KindCategory:
		payload.Record = &models.MachineCategory{ServiceID: parentID, Name: name, Description: description, ImageBlob: image}
	case KindMachine:
		payload.Record = &models.Machine{CategoryID: parentID, Name: name, Description: description, ImageBlob: image}
	default:
		return nil, errUnknownKind(kind)
	}
	return payload, nil
}

// CatalogItem is the API representation of a service, category or machine.
type CatalogItem struct {
	ID          uint      `json:"id"`
	ServiceID   *uint     `json:"service_id,omitempty"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HasImage    bool      `json:"has_image"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func catalogItem(kind CatalogKind, record interface{}) (CatalogItem, error) {
	var item CatalogItem
	switch r := record.(type) {
	case *models.Service:
		item = CatalogItem{ID: r.ID, Name: r.Name, Description: r.Description,
			HasImage: r.HasImage(), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	case *models.MachineCategory:
		serviceID := r.ServiceID
		item = CatalogItem{ID: r.ID, ServiceID: &serviceID, Name: r.Name, Description: r.Description,
			HasImage: r.HasImage(), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	case *models.Machine:
		categoryID := r.CategoryID
		item = CatalogItem{ID: r.ID, CategoryID: &categoryID, Name: r.Name, Description: r.Description,
			HasImage: r.HasImage(), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	default:
		return CatalogItem{}, errUnknownKind(kind)
	}
	item.ImageURL = imageURL(kind.Resource(), item.ID, item.UpdatedAt)
	return item, nil
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns all rows of a kind ordered by id, optionally narrowed to one
// parent. Image bytes are never loaded.
func (s *CatalogService) List(kind CatalogKind, parentID uint) ([]CatalogItem, error) {
	query := s.db.Omit("image").Order("id ASC")
	if col := kind.ParentColumn(); col != "" && parentID > 0 {
		query = query.Where(col+" = ?", parentID)
	}

	var records []interface{}
	switch kind {
	case KindService:
		var rows []models.Service
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		for i := range rows {
			records = append(records, &rows[i])
		}
	case KindCategory:
		var rows []models.MachineCategory
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list machine categories: %w", err)
		}
		for i := range rows {
			records = append(records, &rows[i])
		}
	case KindMachine:
		var rows []models.Machine
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("list machines: %w", err)
		}
		for i := range rows {
			records = append(records, &rows[i])
		}
	default:
		return nil, errUnknownKind(kind)
	}

	items := make([]CatalogItem, 0, len(records))
	for _, r := range records {
		item, err := catalogItem(kind, r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *CatalogService) Get(kind CatalogKind, id uint) (*CatalogItem, error) {
	record, err := kind.model()
	if err != nil {
		return nil, err
	}
	if err := s.db.Omit("image").First(record, id).Error; err != nil {
		return nil, findError(err, kind.String())
	}
	item, err := catalogItem(kind, record)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CatalogService) Create(kind CatalogKind, form CatalogForm) (*CatalogItem, error) {
	payload, err := BuildCatalogPayload(kind, form, true)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(payload.Record).Error; err != nil {
		return nil, writeError(err, kind.String())
	}
	item, err := catalogItem(kind, payload.Record)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies the submitted fields. An omitted image keeps the stored one.
func (s *CatalogService) Update(kind CatalogKind, id uint, form CatalogForm) (*CatalogItem, error) {
	if _, err := s.Get(kind, id); err != nil {
		return nil, err
	}
	payload, err := BuildCatalogPayload(kind, form, false)
	if err != nil {
		return nil, err
	}
	record, err := kind.model()
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(record).Where("id = ?", id).Updates(payload.Columns).Error; err != nil {
		return nil, writeError(err, kind.String())
	}
	return s.Get(kind, id)
}

// Delete removes one row. Rows still referenced by the level below are kept
// and reported as a conflict.
func (s *CatalogService) Delete(kind CatalogKind, id uint) error {
	record, err := kind.model()
	if err != nil {
		return err
	}
	child, hasChild := kind.child()
	if !hasChild {
		return deleteByID(s.db, record, id, kind.String())
	}
	childModel, err := child.model()
	if err != nil {
		return err
	}
	// sqlite reports RESTRICT violations untranslated; check references first.
	return s.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(childModel).Where(child.ParentColumn()+" = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count %s references: %w", kind, err)
		}
		if refs > 0 {
			return errReferenceInUse
		}
		return deleteByID(tx, record, id, kind.String())
	})
}

func (s *CatalogService) Image(kind CatalogKind, id uint) (*ImageData, error) {
	record, err := kind.model()
	if err != nil {
		return nil, err
	}
	return resolveImage(s.db, record, id, kind.String(), kind.Policy())
}
