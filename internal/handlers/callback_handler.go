package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/services/callback"
)

type CallbackHandler struct {
	DB          *gorm.DB
	CallbackSvc *callback.CallbackService
}

func NewCallbackHandler(db *gorm.DB, cbSvc *callback.CallbackService) *CallbackHandler {
	return &CallbackHandler{DB: db, CallbackSvc: cbSvc}
}

type callbackSearchRow struct {
	ApplicationID    uint   `json:"application_id"`
	ProfileID        uint   `json:"profile_id"`
	PairID           string `json:"pair_id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	JobTitle         string `json:"job_title"`
	EmployerName     string `json:"employer_name"`
	EmployerLocation string `json:"employer_location"`
	ApplicationDate  string `json:"application_date"`

	CallbackStatus string `json:"callback_status"`
	CallbackDate   string `json:"callback_date"`
	CallbackMedium string `json:"callback_medium"`
	CallbackNotes  string `json:"callback_notes"`
}

// Search finds applications by employer or candidate details and
// returns one row per profile, the unit callbacks are logged against.
func (h *CallbackHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    []callbackSearchRow{},
		})
	}

	like := "%" + strings.ToLower(query) + "%"
	var appIDs []uint
	err := h.DB.Model(&models.PairApplication{}).
		Distinct("pair_applications.id").
		Joins("JOIN employers ON employers.id = pair_applications.employer_id").
		Joins("JOIN profiles ON profiles.pair_id = pair_applications.pair_id").
		Where(`LOWER(employers.display_name) LIKE ?
			OR LOWER(profiles.full_name) LIKE ?
			OR LOWER(profiles.email) LIKE ?
			OR profiles.phone LIKE ?`, like, like, like, like).
		Pluck("pair_applications.id", &appIDs).Error
	if err != nil {
		log.Println("Error searching callbacks:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
		})
	}

	var apps []models.PairApplication
	if len(appIDs) > 0 {
		err = h.DB.
			Preload("Pair").
			Preload("Pair.Profiles", func(db *gorm.DB) *gorm.DB {
				return db.Order("resume_idx")
			}).
			Preload("Employer").
			Preload("Callbacks").
			Where("id IN ?", appIDs).
			Order("created_at DESC").
			Find(&apps).Error
		if err != nil {
			log.Println("Error loading search results:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Search failed",
			})
		}
	}

	rows := make([]callbackSearchRow, 0, len(apps)*2)
	for _, app := range apps {
		byProfile := make(map[uint]models.CallbackLog, len(app.Callbacks))
		for _, cb := range app.Callbacks {
			byProfile[cb.ProfileID] = cb
		}
		for _, p := range app.Pair.Profiles {
			row := callbackSearchRow{
				ApplicationID:   app.ID,
				ProfileID:       p.ID,
				PairID:          app.Pair.PairID,
				FullName:        p.FullName,
				Email:           p.Email,
				Phone:           p.Phone,
				Address:         p.Address,
				JobTitle:        app.JobTitle,
				ApplicationDate: app.CreatedAt.Format("2006-01-02"),
				CallbackStatus:  string(models.CallbackStatusNoInfo),
			}
			if app.Employer != nil {
				row.EmployerName = app.Employer.DisplayName
				row.EmployerLocation = app.Employer.EmployerLocation
			}
			if cb, ok := byProfile[p.ID]; ok {
				row.CallbackStatus = string(cb.CallbackStatus)
				row.CallbackMedium = string(cb.CallbackMedium)
				row.CallbackNotes = cb.CallbackNotes
				if cb.CallbackDate != nil {
					row.CallbackDate = time.Time(*cb.CallbackDate).Format("2006-01-02")
				}
			}
			rows = append(rows, row)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

type UpdateCallbackRequest struct {
	ProfileID        uint   `json:"profile_id"`
	CallbackReceived bool   `json:"callback_received"`
	CallbackStatus   string `json:"callback_status"`
	CallbackDate     string `json:"callback_date"`
	CallbackMedium   string `json:"callback_medium"`
	CallbackNotes    string `json:"callback_notes"`
}

// Update logs an employer response against one profile of an
// application. callback_received maps to the callback/no_info statuses;
// callback_status may name rejection explicitly.
func (h *CallbackHandler) Update(c *fiber.Ctx) error {
	appID, err := c.ParamsInt("application_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid application ID",
		})
	}

	var req UpdateCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.ProfileID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "profile_id is required",
		})
	}
	if !models.ValidCallbackMedium(req.CallbackMedium) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Unknown callback medium",
		})
	}

	status := models.CallbackStatusNoInfo
	if req.CallbackReceived {
		status = models.CallbackStatusCallback
	}
	if req.CallbackStatus != "" {
		switch models.CallbackStatus(req.CallbackStatus) {
		case models.CallbackStatusNoInfo, models.CallbackStatusCallback, models.CallbackStatusRejection:
			status = models.CallbackStatus(req.CallbackStatus)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Unknown callback status",
			})
		}
	}

	var date *datatypes.Date
	if req.CallbackDate != "" {
		t, err := time.Parse("2006-01-02", req.CallbackDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "callback_date must be YYYY-MM-DD",
			})
		}
		d := datatypes.Date(t)
		date = &d
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// Reconcile first so the row exists even for applications
		// created before the logger ran.
		if err := h.CallbackSvc.EnsureLogs(tx, uint(appID)); err != nil {
			return err
		}

		var cb models.CallbackLog
		if err := tx.Where("application_id = ? AND profile_id = ?", appID, req.ProfileID).
			First(&cb).Error; err != nil {
			return err
		}

		cb.CallbackStatus = status
		cb.CallbackDate = date
		cb.CallbackMedium = models.CallbackMedium(req.CallbackMedium)
		cb.CallbackNotes = req.CallbackNotes
		return tx.Save(&cb).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Application or profile not found",
			})
		}
		log.Println("Error updating callback:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update callback",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Callback status updated",
	})
}
