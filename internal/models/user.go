package models

import "time"

type Role string

const (
	RoleRA    Role = "ra"
	RoleAdmin Role = "admin"
)

// User is a research-assistant account. Accounts are seeded by an
// admin; there is no public signup.
type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
