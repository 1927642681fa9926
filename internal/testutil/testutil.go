// Package testutil provides shared helpers for DB-backed tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/audit-field-study/pairtrack/internal/models"
)

// OpenDB opens an isolated in-memory sqlite database with the full
// schema migrated. Each call gets its own database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Pair{},
		&models.Profile{},
		&models.Employer{},
		&models.PairApplication{},
		&models.CallbackLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// SeedPair creates a pair with its two profiles and returns it with
// profiles loaded.
func SeedPair(t *testing.T, db *gorm.DB, pairID, occupation string) models.Pair {
	t.Helper()

	pair := models.Pair{
		PairID:             pairID,
		Occupation:         occupation,
		GoodFitOccupations: "Specialist, Coordinator",
		Location:           "GA",
		Archetype:          "hr_payroll_generalist",
	}
	if err := db.Create(&pair).Error; err != nil {
		t.Fatalf("seed pair: %v", err)
	}

	profiles := []models.Profile{
		{PairID: pair.ID, FullName: "Emily Walsh", Email: "emily.walsh11@gmail.com", Phone: "(404) 555-0101", ResumeIdx: 1},
		{PairID: pair.ID, FullName: "Lakisha Washington", Email: "lakisha.washington22@gmail.com", Phone: "(404) 555-0102", ResumeIdx: 2},
	}
	for i := range profiles {
		if err := db.Create(&profiles[i]).Error; err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	pair.Profiles = profiles
	return pair
}

// SeedEmployer creates an employer row.
func SeedEmployer(t *testing.T, db *gorm.DB, name string) models.Employer {
	t.Helper()

	emp := models.Employer{DisplayName: name}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	return emp
}
