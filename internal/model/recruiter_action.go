package model

import "time"

var (
	// ActionShortlist records an application moved to shortlisted
	ActionShortlist = "shortlist"
	// ActionReject records an application moved to rejected
	ActionReject = "reject"
)

// RecruiterAction is the audit record appended when an admin moves an
// application into a terminal status. Written in the same transaction
// as the status update.
type RecruiterAction struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ApplicationID uint        `gorm:"not null;index" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	RecruiterUserID uint `gorm:"not null;index" json:"recruiter_user_id"`
	RecruiterUser   User `gorm:"foreignKey:RecruiterUserID;references:ID" json:"-"`

	ActionType string `gorm:"type:text;not null" json:"action_type"`

	CreatedAt time.Time `json:"created_at"`
}

// ActionForStatus derives the audit action for a target application status.
// Only terminal statuses produce an action.
func ActionForStatus(status string) (string, bool) {
	switch status {
	case ApplicationStatusShortlisted:
		return ActionShortlist, true
	case ApplicationStatusRejected:
		return ActionReject, true
	default:
		return "", false
	}
}
