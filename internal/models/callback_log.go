package models

import (
	"time"

	"gorm.io/datatypes"
)

type CallbackStatus string

const (
	CallbackStatusNoInfo    CallbackStatus = "no_info"
	CallbackStatusCallback  CallbackStatus = "callback"
	CallbackStatusRejection CallbackStatus = "rejection"
)

type CallbackMedium string

const (
	CallbackMediumPhone             CallbackMedium = "phone"
	CallbackMediumPersonalizedEmail CallbackMedium = "personalized_email"
	CallbackMediumStandardizedEmail CallbackMedium = "standardized_email"
	CallbackMediumText              CallbackMedium = "text"
	CallbackMediumOther             CallbackMedium = "other"
)

// CallbackLog tracks the employer's response for one profile of one
// application. Exactly one row exists per (application, profile) pair;
// the callback reconciliation service creates missing rows with
// no_info and never touches existing ones.
type CallbackLog struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ApplicationID uint `gorm:"not null;uniqueIndex:idx_application_profile" json:"application_id"`
	ProfileID     uint `gorm:"not null;uniqueIndex:idx_application_profile" json:"profile_id"`

	CallbackStatus CallbackStatus  `gorm:"size:20;default:no_info" json:"callback_status"`
	CallbackDate   *datatypes.Date `json:"callback_date,omitempty"`
	CallbackMedium CallbackMedium  `gorm:"size:30" json:"callback_medium"`
	CallbackNotes  string          `gorm:"type:text" json:"callback_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Application *PairApplication `gorm:"foreignKey:ApplicationID" json:"-"`
	Profile     *Profile         `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// ValidCallbackMedium reports whether s is a known callback medium.
// The empty string is allowed: medium is optional until an outcome is
// logged.
func ValidCallbackMedium(s string) bool {
	switch CallbackMedium(s) {
	case "", CallbackMediumPhone, CallbackMediumPersonalizedEmail,
		CallbackMediumStandardizedEmail, CallbackMediumText, CallbackMediumOther:
		return true
	}
	return false
}
