package model

import "time"

// Company is gorm model for an employer organization. Admin users are
// affiliated with exactly one company through User.CompanyID.
type Company struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:text;not null" json:"name"`
	Website     string `gorm:"type:text" json:"website"`
	Description string `gorm:"type:text" json:"description"`
	LogoURL     string `gorm:"type:text" json:"logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
