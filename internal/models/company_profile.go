package models

import (
	"time"

	"gorm.io/datatypes"
)

// SocialLinks holds normalized profile URLs; empty means not shown.
type SocialLinks struct {
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	X         string `json:"x"`
}

// CompanyProfile is a single-row table with the public contact details.
type CompanyProfile struct {
	ID        uint                            `gorm:"primaryKey" json:"id"`
	Name      string                          `gorm:"size:200;not null" json:"name"`
	Phone     string                          `gorm:"size:50" json:"phone"`
	WhatsApp  string                          `gorm:"column:whatsapp;size:50" json:"whatsapp"`
	Address   string                          `gorm:"type:text" json:"address"`
	Emails    datatypes.JSONSlice[string]     `json:"emails"`
	Socials   datatypes.JSONType[SocialLinks] `json:"socials"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

func (CompanyProfile) TableName() string { return "company_profiles" }
