package models

import "time"

// ImageBlob is the stored image of a row. The bytes are never selected by list queries.
type ImageBlob struct {
	Image     []byte `gorm:"column:image" json:"-"`
	ImageMime string `gorm:"column:image_mime;size:50" json:"-"`
	ImageSize int64  `gorm:"column:image_size;default:0" json:"-"`
}

func (b ImageBlob) HasImage() bool { return b.ImageSize > 0 }

// Service is a top-level offering shown on the services page.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageBlob   `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MachineCategory groups machines under a service.
type MachineCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ServiceID   uint      `gorm:"not null;index" json:"service_id"`
	Service     *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageBlob   `gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Machine is a single piece of equipment listed under a category.
type Machine struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	Category    *MachineCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string           `gorm:"size:200;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	ImageBlob   `gorm:"embedded"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Service) TableName() string         { return "services" }
func (MachineCategory) TableName() string { return "machine_categories" }
func (Machine) TableName() string         { return "machines" }
