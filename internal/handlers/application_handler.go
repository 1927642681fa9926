package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/services/callback"
)

type ApplicationHandler struct {
	DB          *gorm.DB
	CallbackSvc *callback.CallbackService
}

func NewApplicationHandler(db *gorm.DB, cbSvc *callback.CallbackService) *ApplicationHandler {
	return &ApplicationHandler{DB: db, CallbackSvc: cbSvc}
}

type ApplicationRequest struct {
	PairID     uint `json:"pair_ref"`
	EmployerID uint `json:"employer_id"`

	JobTitle    string `json:"job_title"`
	JobText     string `json:"job_text"`
	JobLocation string `json:"job_location"`

	WorkMode      string `json:"work_mode"`
	JobLink       string `json:"job_link"`
	JobBoard      string `json:"job_board"`
	JobBoardOther string `json:"job_board_other"`
	DaysOpen      *uint  `json:"days_open"`
}

func (r *ApplicationRequest) validate() FieldErrors {
	errs := FieldErrors{}
	if r.PairID == 0 {
		errs.Add("pair_ref", "Pair is required")
	}
	if r.EmployerID == 0 {
		errs.Add("employer_id", "Employer is required")
	}
	if r.WorkMode != "" && !models.ValidWorkMode(r.WorkMode) {
		errs.Add("work_mode", "Unknown work mode")
	}
	if r.JobBoard != "" && !models.ValidJobBoard(r.JobBoard) {
		errs.Add("job_board", "Unknown job board")
	}
	if models.JobBoard(r.JobBoard) == models.JobBoardOther && strings.TrimSpace(r.JobBoardOther) == "" {
		errs.Add("job_board_other", "Name the job board when choosing other")
	}
	return errs
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Create records a new draft application for a pair. The occupation is
// copied from the pair, never from the payload, and the callback rows
// for both profiles are initialized in the same transaction.
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var req ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	var pair models.Pair
	if err := h.DB.First(&pair, "id = ?", req.PairID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Pair not found",
		})
	}
	var emp models.Employer
	if err := h.DB.First(&emp, "id = ?", req.EmployerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Employer not found",
		})
	}

	app := models.PairApplication{
		PairID:        pair.ID,
		EmployerID:    emp.ID,
		Occupation:    models.DeriveOccupation(pair.Occupation),
		JobTitle:      req.JobTitle,
		JobText:       req.JobText,
		JobLocation:   req.JobLocation,
		JobLink:       req.JobLink,
		JobBoardOther: req.JobBoardOther,
		DaysOpen:      req.DaysOpen,
		Status:        models.ApplicationStatusDraft,
	}
	if req.WorkMode != "" {
		app.WorkMode = models.WorkMode(req.WorkMode)
	}
	if req.JobBoard != "" {
		app.JobBoard = models.JobBoard(req.JobBoard)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		return h.CallbackSvc.EnsureLogs(tx, app.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "This employer already has an application for " + app.Occupation,
			})
		}
		log.Println("Error creating application:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create application",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    app,
	})
}

// Update edits a draft application. Submitted applications are frozen;
// the occupation is re-derived from the pair on every save.
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
		})
	}

	var app models.PairApplication
	if err := h.DB.Preload("Pair").First(&app, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
		})
	}

	if app.Status == models.ApplicationStatusSubmitted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Submitted applications cannot be edited",
		})
	}

	var req ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	// Pair and employer may be corrected while the application is a
	// draft; default to the stored values when the payload omits them.
	if req.PairID == 0 {
		req.PairID = app.PairID
	}
	if req.EmployerID == 0 {
		req.EmployerID = app.EmployerID
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	var pair models.Pair
	if err := h.DB.First(&pair, "id = ?", req.PairID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Pair not found",
		})
	}
	if err := h.DB.First(&models.Employer{}, "id = ?", req.EmployerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Employer not found",
		})
	}

	app.PairID = pair.ID
	app.EmployerID = req.EmployerID
	app.Occupation = models.DeriveOccupation(pair.Occupation)
	app.JobTitle = req.JobTitle
	app.JobText = req.JobText
	app.JobLocation = req.JobLocation
	app.JobLink = req.JobLink
	app.JobBoardOther = req.JobBoardOther
	app.DaysOpen = req.DaysOpen
	if req.WorkMode != "" {
		app.WorkMode = models.WorkMode(req.WorkMode)
	}
	if req.JobBoard != "" {
		app.JobBoard = models.JobBoard(req.JobBoard)
	}
	app.Pair = nil

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&app).Error; err != nil {
			return err
		}
		// Re-pointing the pair can leave callback rows for the old
		// profiles; reconciliation fills in the new ones.
		return h.CallbackSvc.EnsureLogs(tx, app.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "This employer already has an application for " + app.Occupation,
			})
		}
		log.Println("Error updating application:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update application",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    app,
	})
}

// Submit moves a draft to submitted and stamps the submission time.
// Submitting an already-submitted application is a no-op that returns
// the original timestamp.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
		})
	}

	var app models.PairApplication
	if err := h.DB.First(&app, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
		})
	}

	if app.Status != models.ApplicationStatusSubmitted {
		now := time.Now()
		app.Status = models.ApplicationStatusSubmitted
		app.SubmittedAt = &now
		if err := h.DB.Save(&app).Error; err != nil {
			log.Println("Error submitting application:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to submit application",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           app.ID,
			"status":       app.Status,
			"submitted_at": app.SubmittedAt,
		},
	})
}

// List returns applications newest first with their callback summary,
// filterable by occupation, work mode, job board and status.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	q := h.DB.
		Preload("Pair").
		Preload("Employer").
		Preload("Callbacks").
		Order("created_at DESC")

	if v := c.Query("occupation"); v != "" {
		q = q.Where("occupation = ?", models.DeriveOccupation(v))
	}
	if v := c.Query("work_mode"); v != "" {
		q = q.Where("work_mode = ?", v)
	}
	if v := c.Query("job_board"); v != "" {
		q = q.Where("job_board = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}

	var apps []models.PairApplication
	if err := q.Find(&apps).Error; err != nil {
		log.Println("Error fetching applications:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch applications",
		})
	}

	type listRow struct {
		models.PairApplication
		CallbackSummary callback.Summary `json:"callback_summary"`
	}
	rows := make([]listRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, listRow{
			PairApplication: a,
			CallbackSummary: h.CallbackSvc.Summarize(a.Callbacks),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// Get returns one application with its callback rows and summary.
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid application ID",
		})
	}

	var app models.PairApplication
	if err := h.DB.
		Preload("Pair").
		Preload("Pair.Profiles").
		Preload("Employer").
		Preload("Callbacks").
		Preload("Callbacks.Profile").
		First(&app, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Application not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"application":      app,
			"callback_summary": h.CallbackSvc.Summarize(app.Callbacks),
		},
	})
}
