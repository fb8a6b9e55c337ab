package model

import "time"

// Employment types accepted on job postings
var (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

// Job is gorm model for store job posting data in DB.
// Jobs are never hard-deleted, DELETE flips IsActive instead.
type Job struct {
	ID        uint    `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CompanyID uint    `gorm:"not null;index;<-:create" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID" json:"-"`

	CreatedByUserID uint `gorm:"not null;<-:create" json:"created_by_user_id"`
	CreatedByUser   User `gorm:"foreignKey:CreatedByUserID;references:ID" json:"-"`

	Title          string `gorm:"type:text;not null" json:"title"`
	Description    string `gorm:"type:text;not null" json:"description"`
	Location       string `gorm:"type:text" json:"location"`
	EmploymentType string `gorm:"type:text;not null" json:"employment_type"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applications []Application `gorm:"foreignKey:JobID" json:"-"`
}
