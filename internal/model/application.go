package model

import "time"

var (
	// ApplicationStatusApplied is the initial state of every application
	ApplicationStatusApplied = "applied"
	// ApplicationStatusShortlisted is terminal, the applicant moved forward
	ApplicationStatusShortlisted = "shortlisted"
	// ApplicationStatusRejected is terminal, the applicant was turned down
	ApplicationStatusRejected = "rejected"
)

// Application represents a job application record. The composite unique
// index makes a second application to the same job surface as a conflict.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobID uint `gorm:"not null;uniqueIndex:idx_applications_job_user" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	UserID uint `gorm:"not null;uniqueIndex:idx_applications_job_user" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	Status string `gorm:"type:text;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
