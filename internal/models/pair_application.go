package models

import (
	"strings"
	"time"
	"unicode"
)

type WorkMode string

const (
	WorkModeRemote   WorkMode = "remote"
	WorkModeHybrid   WorkMode = "hybrid"
	WorkModeInPerson WorkMode = "in_person"
)

type JobBoard string

const (
	JobBoardIndeed       JobBoard = "indeed"
	JobBoardGlassdoor    JobBoard = "glassdoor"
	JobBoardZipRecruiter JobBoard = "ziprecruiter"
	JobBoardOther        JobBoard = "other"
)

type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "draft"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
)

// PairApplication records one job application submitted on behalf of a
// pair to one employer. Occupation is denormalized from the pair on
// every save (trimmed, capitalized) and is never editable directly; the
// composite unique index on (occupation, employer_id) is what keeps an
// employer from receiving two audit applications for the same role
// category.
type PairApplication struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PairID     uint `gorm:"not null;index" json:"pair_ref"`
	EmployerID uint `gorm:"not null;uniqueIndex:idx_occupation_employer" json:"employer_id"`

	Occupation string `gorm:"size:120;uniqueIndex:idx_occupation_employer" json:"occupation"`

	JobTitle    string `gorm:"size:255" json:"job_title"`
	JobText     string `gorm:"type:text" json:"job_text"`
	JobLocation string `gorm:"size:255" json:"job_location"`

	WorkMode      WorkMode `gorm:"size:20;default:in_person" json:"work_mode"`
	JobLink       string   `gorm:"size:500" json:"job_link"`
	JobBoard      JobBoard `gorm:"size:50;default:other" json:"job_board"`
	JobBoardOther string   `gorm:"size:255" json:"job_board_other"`
	DaysOpen      *uint    `json:"days_open,omitempty"`

	Status      ApplicationStatus `gorm:"size:20;default:draft" json:"status"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pair      *Pair         `gorm:"foreignKey:PairID;references:ID" json:"pair,omitempty"`
	Employer  *Employer     `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
	Callbacks []CallbackLog `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"callbacks,omitempty"`
}

// DeriveOccupation computes the denormalized occupation stored on an
// application from its pair's occupation: trimmed, first letter upper,
// rest lower. Applications always carry this derived form regardless of
// what a write payload contains.
func DeriveOccupation(pairOccupation string) string {
	s := strings.ToLower(strings.TrimSpace(pairOccupation))
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ValidWorkMode reports whether s is a known work mode.
func ValidWorkMode(s string) bool {
	switch WorkMode(s) {
	case WorkModeRemote, WorkModeHybrid, WorkModeInPerson:
		return true
	}
	return false
}

// ValidJobBoard reports whether s is a known job board.
func ValidJobBoard(s string) bool {
	switch JobBoard(s) {
	case JobBoardIndeed, JobBoardGlassdoor, JobBoardZipRecruiter, JobBoardOther:
		return true
	}
	return false
}
