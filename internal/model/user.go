// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/lib/pq"
)

// Role is the platform role attached to every user account.
type Role string

var (
	// RoleSeeker is a job applicant, may act only on their own records
	RoleSeeker Role = "seeker"
	// RoleAdmin is a recruiter scoped to a single company
	RoleAdmin Role = "admin"
	// RoleSuperadmin is an unrestricted platform operator
	RoleSuperadmin Role = "superadmin"
)

// User is gorm model for a platform account, covering all three roles.
// Password holds the bcrypt hash and never serializes.
type User struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Role     Role    `gorm:"type:text;not null;default:'seeker'" json:"role"`
	GoogleID *string `gorm:"uniqueIndex" json:"-"`

	// CompanyID determines scoping for admin users, null for everyone else
	CompanyID *uint    `gorm:"index" json:"company_id"`
	Company   *Company `gorm:"foreignKey:CompanyID;references:ID" json:"-"`

	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	University string         `json:"university"`
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills"`
	Interests  pq.StringArray `gorm:"type:text[]" json:"interests"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
