package models

import "time"

// Project is an engineering job tracked in the admin area.
type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	JobNo        string     `gorm:"size:100;not null;uniqueIndex:idx_projects_job_name" json:"job_no"`
	ProjectName  string     `gorm:"size:255;not null;uniqueIndex:idx_projects_job_name" json:"project_name"`
	CustomerName string     `gorm:"size:255;not null" json:"customer_name"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       string     `gorm:"size:20;not null;default:Pending;index" json:"status"` // Pending, Ongoing, Finish, Cancel
	StartDate    time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	AssignedTo   string     `gorm:"size:100;not null;default:-" json:"assigned_to"`
	ContractType *string    `gorm:"size:20" json:"contract_type"` // Lumpsum, DailyRate
	AddDuration  *int       `json:"add_duration"`                 // extra days granted on top of the original schedule
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
