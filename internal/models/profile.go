package models

import "time"

// Profile is one synthetic candidate identity within a Pair. Exactly
// two exist per pair, distinguished by ResumeIdx (1 or 2).
type Profile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PairID uint `gorm:"not null;index" json:"pair_ref"`

	FullName  string `gorm:"size:200;index" json:"full_name"`
	Phone     string `gorm:"size:50" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`
	Email     string `gorm:"size:255;index" json:"email"`
	Expertise string `gorm:"type:text" json:"expertise"`

	TemplateName string `gorm:"size:120" json:"template_name"`
	ResumeIdx    int    `json:"resume_idx"`

	// Path to the rendered PDF under the media root. Written once after
	// a successful render; empty when rendering failed or is pending.
	ResumePDF string `gorm:"size:500" json:"resume_pdf"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
