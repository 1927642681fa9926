package callback

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
)

type CallbackService struct {
	DB *gorm.DB
}

func NewCallbackService(db *gorm.DB) *CallbackService {
	return &CallbackService{DB: db}
}

// EnsureLogs makes the callback invariant hold for one application:
// exactly one CallbackLog per profile of the application's pair. Missing
// rows are created with no_info; existing rows are never touched. Safe
// to call after every application create or update.
// This should be called within a DB transaction when composed with
// other writes.
func (s *CallbackService) EnsureLogs(tx *gorm.DB, applicationID uint) error {
	var app models.PairApplication
	if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
		return fmt.Errorf("load application %d: %w", applicationID, err)
	}

	var profiles []models.Profile
	if err := tx.Where("pair_id = ?", app.PairID).Order("resume_idx").Find(&profiles).Error; err != nil {
		return fmt.Errorf("load profiles for pair %d: %w", app.PairID, err)
	}

	for _, p := range profiles {
		var existing models.CallbackLog
		err := tx.Where("application_id = ? AND profile_id = ?", app.ID, p.ID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		log := models.CallbackLog{
			ApplicationID:  app.ID,
			ProfileID:      p.ID,
			CallbackStatus: models.CallbackStatusNoInfo,
		}
		if err := tx.Create(&log).Error; err != nil {
			return fmt.Errorf("create callback log for profile %d: %w", p.ID, err)
		}
	}

	return nil
}

// Summary is the per-application outcome rollup shown in list views.
type Summary struct {
	Initialized bool     `json:"initialized"`
	Symbols     string   `json:"symbols"`
	Statuses    []string `json:"statuses"`
}

var statusSymbols = map[models.CallbackStatus]string{
	models.CallbackStatusNoInfo:    "—",
	models.CallbackStatusCallback:  "✓",
	models.CallbackStatusRejection: "✗",
}

// Summarize aggregates an application's callback rows into one display
// line. Zero rows means the reconciliation has not run yet; one or two
// rows render one symbol each.
func (s *CallbackService) Summarize(logs []models.CallbackLog) Summary {
	if len(logs) == 0 {
		return Summary{Initialized: false, Symbols: "not initialized"}
	}
	sum := Summary{Initialized: true}
	for _, l := range logs {
		sym, ok := statusSymbols[l.CallbackStatus]
		if !ok {
			sym = "?"
		}
		sum.Symbols += sym
		sum.Statuses = append(sum.Statuses, string(l.CallbackStatus))
	}
	return sum
}
