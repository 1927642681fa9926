// Package importer upserts Pair/Profile rows from tabular input, for
// backfilling pairs generated outside this tool.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
)

// Column aliases: the historical log used spaced headers, newer files
// use snake_case. Both resolve to the same fields.
var columnAliases = map[string]string{
	"pair_id":                           "pair_id",
	"first_name":                        "first_name",
	"last_name":                         "last_name",
	"full_name":                         "full_name",
	"occupation":                        "occupation",
	"good_fit_occupations":              "good_fit",
	"good fit occupations":              "good_fit",
	"skills":                            "skills",
	"expertise":                         "skills",
	"professional skills and expertise": "skills",
}

// Stats reports what one import run did.
type Stats struct {
	PairsCreated    int `json:"pairs_created"`
	PairsUpdated    int `json:"pairs_updated"`
	ProfilesCreated int `json:"profiles_created"`
	ProfilesUpdated int `json:"profiles_updated"`
	RowsSkipped     int `json:"rows_skipped"`
}

type Importer struct {
	DB *gorm.DB
}

func NewImporter(db *gorm.DB) *Importer {
	return &Importer{DB: db}
}

// ImportPairs reads CSV rows and upserts Pair and Profile records.
// Text fields are updated when changed and left untouched otherwise;
// rows without a pair id or name are skipped and counted.
func (im *Importer) ImportPairs(r io.Reader) (*Stats, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[key]; ok {
			cols[canonical] = i
		}
	}
	if _, ok := cols["pair_id"]; !ok {
		return nil, errors.New("missing required column: pair_id")
	}
	if _, hasFull := cols["full_name"]; !hasFull {
		if _, hasFirst := cols["first_name"]; !hasFirst {
			return nil, errors.New("missing required column: full_name or first_name/last_name")
		}
	}

	stats := &Stats{}
	err = im.DB.Transaction(func(tx *gorm.DB) error {
		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read row: %w", err)
			}

			field := func(name string) string {
				i, ok := cols[name]
				if !ok || i >= len(record) {
					return ""
				}
				return strings.TrimSpace(record[i])
			}

			pairID := field("pair_id")
			fullName := field("full_name")
			if fullName == "" {
				fullName = strings.TrimSpace(field("first_name") + " " + field("last_name"))
			}
			if pairID == "" || fullName == "" {
				stats.RowsSkipped++
				continue
			}

			if err := im.upsertRow(tx, stats, pairID, fullName,
				field("occupation"), field("good_fit"), field("skills")); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (im *Importer) upsertRow(tx *gorm.DB, stats *Stats, pairID, fullName, occupation, goodFit, skills string) error {
	var pair models.Pair
	err := tx.Where("pair_id = ?", pairID).First(&pair).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pair = models.Pair{
			PairID:             pairID,
			Occupation:         occupation,
			GoodFitOccupations: goodFit,
		}
		if err := tx.Create(&pair).Error; err != nil {
			return fmt.Errorf("create pair %s: %w", pairID, err)
		}
		stats.PairsCreated++
	case err != nil:
		return err
	default:
		if (occupation != "" && pair.Occupation != occupation) ||
			(goodFit != "" && pair.GoodFitOccupations != goodFit) {
			if occupation != "" {
				pair.Occupation = occupation
			}
			if goodFit != "" {
				pair.GoodFitOccupations = goodFit
			}
			if err := tx.Save(&pair).Error; err != nil {
				return fmt.Errorf("update pair %s: %w", pairID, err)
			}
			stats.PairsUpdated++
		}
	}

	var profile models.Profile
	err = tx.Where("pair_id = ? AND full_name = ?", pair.ID, fullName).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var existing int64
		if err := tx.Model(&models.Profile{}).Where("pair_id = ?", pair.ID).Count(&existing).Error; err != nil {
			return err
		}
		profile = models.Profile{
			PairID:    pair.ID,
			FullName:  fullName,
			Expertise: skills,
			ResumeIdx: int(existing) + 1,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("create profile %s: %w", fullName, err)
		}
		stats.ProfilesCreated++
	case err != nil:
		return err
	default:
		if skills != "" && profile.Expertise != skills {
			profile.Expertise = skills
			if err := tx.Save(&profile).Error; err != nil {
				return fmt.Errorf("update profile %s: %w", fullName, err)
			}
			stats.ProfilesUpdated++
		}
	}

	return nil
}
