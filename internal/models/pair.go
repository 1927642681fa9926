package models

import "time"

// Pair is one generated resume pair. Rows are created by the generator
// (or the bulk importer) and never edited afterwards, apart from the
// generation-metadata backfill columns.
type Pair struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	PairID             string `gorm:"size:50;uniqueIndex" json:"pair_id"`
	Occupation         string `gorm:"size:120" json:"occupation"`
	GoodFitOccupations string `gorm:"type:text" json:"good_fit_occupations"`

	// Generation metadata, backfilled for imported pairs.
	Location    string `gorm:"size:10" json:"location"`
	Archetype   string `gorm:"size:64" json:"archetype"`
	Sublocation *int   `json:"sublocation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profiles     []Profile         `gorm:"foreignKey:PairID;references:ID;constraint:OnDelete:CASCADE" json:"profiles,omitempty"`
	Applications []PairApplication `gorm:"foreignKey:PairID;references:ID;constraint:OnDelete:RESTRICT" json:"applications,omitempty"`
}
