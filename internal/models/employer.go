package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/dedupe"
)

// Employer is an RA-logged employer record. NormalizedName is derived
// from DisplayName on every save and backs the advisory duplicate
// check; there is no uniqueness constraint on either column, so two
// rows with the same normalized key can coexist and are surfaced as
// likely duplicates instead of being rejected.
type Employer struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	DisplayName    string `gorm:"size:255;index" json:"display_name"`
	NormalizedName string `gorm:"size:255;index" json:"normalized_name"`

	EmployerLocation string   `gorm:"size:255" json:"employer_location"`
	NumberEmployees  *uint    `json:"number_employees,omitempty"`
	Industry         string   `gorm:"size:255" json:"industry"`
	GlassdoorScore   *float64 `json:"glassdoor_score,omitempty"`
	DiversityScore   *float64 `json:"diversity_score,omitempty"`
	OpeningsNumber   *uint    `json:"openings_number,omitempty"`
	MissionStatement string   `gorm:"type:text" json:"mission_statement"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applications []PairApplication `gorm:"foreignKey:EmployerID;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeSave keeps NormalizedName in sync with DisplayName.
func (e *Employer) BeforeSave(tx *gorm.DB) error {
	e.NormalizedName = dedupe.NormalizeEmployerName(e.DisplayName)
	return nil
}
