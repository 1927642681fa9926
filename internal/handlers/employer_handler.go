package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/dedupe"
	"github.com/audit-field-study/pairtrack/internal/models"
)

type EmployerHandler struct {
	DB *gorm.DB
}

func NewEmployerHandler(db *gorm.DB) *EmployerHandler {
	return &EmployerHandler{DB: db}
}

type EmployerRequest struct {
	DisplayName      string   `json:"display_name"`
	EmployerLocation string   `json:"employer_location"`
	NumberEmployees  *uint    `json:"number_employees"`
	Industry         string   `json:"industry"`
	GlassdoorScore   *float64 `json:"glassdoor_score"`
	DiversityScore   *float64 `json:"diversity_score"`
	OpeningsNumber   *uint    `json:"openings_number"`
	MissionStatement string   `json:"mission_statement"`
}

// Create adds an employer. Duplicate normalized names are allowed; the
// response flags likely duplicates so the RA can double-check.
func (h *EmployerHandler) Create(c *fiber.Ctx) error {
	var req EmployerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "display_name is required",
		})
	}

	emp := models.Employer{
		DisplayName:      name,
		EmployerLocation: req.EmployerLocation,
		NumberEmployees:  req.NumberEmployees,
		Industry:         req.Industry,
		GlassdoorScore:   req.GlassdoorScore,
		DiversityScore:   req.DiversityScore,
		OpeningsNumber:   req.OpeningsNumber,
		MissionStatement: req.MissionStatement,
	}
	if err := h.DB.Create(&emp).Error; err != nil {
		log.Println("Error creating employer:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create employer",
		})
	}

	body := fiber.Map{
		"success": true,
		"data":    emp,
	}
	if warn := h.duplicateWarning(emp); warn != "" {
		body["warning"] = warn
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

func (h *EmployerHandler) duplicateWarning(emp models.Employer) string {
	if emp.NormalizedName == "" {
		return ""
	}
	var twins int64
	h.DB.Model(&models.Employer{}).
		Where("normalized_name = ? AND id <> ?", emp.NormalizedName, emp.ID).
		Count(&twins)
	if twins > 0 {
		return fmt.Sprintf("%d existing employer(s) share the normalized name %q", twins, emp.NormalizedName)
	}
	return ""
}

// List returns employers, filterable by a name fragment.
func (h *EmployerHandler) List(c *fiber.Ctx) error {
	q := h.DB.Order("display_name")
	if frag := c.Query("q"); frag != "" {
		like := "%" + strings.ToLower(frag) + "%"
		q = q.Where("LOWER(display_name) LIKE ? OR normalized_name LIKE ?", like, like)
	}

	var employers []models.Employer
	if err := q.Find(&employers).Error; err != nil {
		log.Println("Error fetching employers:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch employers",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    employers,
	})
}

// Get returns one employer.
func (h *EmployerHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid employer ID",
		})
	}

	var emp models.Employer
	if err := h.DB.First(&emp, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Employer not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    emp,
	})
}

// Update edits an employer's RA-logged fields. NormalizedName follows
// DisplayName through the model hook.
func (h *EmployerHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid employer ID",
		})
	}

	var emp models.Employer
	if err := h.DB.First(&emp, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Employer not found",
		})
	}

	var req EmployerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		emp.DisplayName = name
	}
	emp.EmployerLocation = req.EmployerLocation
	emp.NumberEmployees = req.NumberEmployees
	emp.Industry = req.Industry
	emp.GlassdoorScore = req.GlassdoorScore
	emp.DiversityScore = req.DiversityScore
	emp.OpeningsNumber = req.OpeningsNumber
	emp.MissionStatement = req.MissionStatement

	if err := h.DB.Save(&emp).Error; err != nil {
		log.Println("Error updating employer:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update employer",
		})
	}

	body := fiber.Map{
		"success": true,
		"data":    emp,
	}
	if warn := h.duplicateWarning(emp); warn != "" {
		body["warning"] = warn
	}
	return c.JSON(body)
}

// Delete removes an employer unless applications reference it.
func (h *EmployerHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid employer ID",
		})
	}

	var emp models.Employer
	if err := h.DB.First(&emp, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Employer not found",
		})
	}

	var refs int64
	if err := h.DB.Model(&models.PairApplication{}).Where("employer_id = ?", emp.ID).Count(&refs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check references",
		})
	}
	if refs > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Employer has applications and cannot be deleted",
		})
	}

	if err := h.DB.Delete(&emp).Error; err != nil {
		log.Println("Error deleting employer:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete employer",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Employer deleted",
	})
}

// Check is the advisory duplicate probe the entry form calls before
// saving: has any employer with the same normalized name already
// received an application for this occupation?
func (h *EmployerHandler) Check(c *fiber.Ctx) error {
	name := c.Query("employer")
	occupation := models.DeriveOccupation(c.Query("occupation"))

	if strings.TrimSpace(name) == "" {
		return c.JSON(fiber.Map{
			"ok":    false,
			"error": "employer name is required",
		})
	}

	key := dedupe.NormalizeEmployerName(name)
	if key == "" {
		// Names made entirely of stopwords normalize to nothing; there
		// is no meaningful key to compare, so do not block the save.
		return c.JSON(fiber.Map{
			"ok":      true,
			"message": "Employer name could not be normalized; no duplicate check performed",
		})
	}

	var twinIDs []uint
	if err := h.DB.Model(&models.Employer{}).
		Where("normalized_name = ?", key).
		Pluck("id", &twinIDs).Error; err != nil {
		log.Println("Error checking employers:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Failed to check employer",
		})
	}

	if len(twinIDs) > 0 && occupation != "" {
		var existing int64
		if err := h.DB.Model(&models.PairApplication{}).
			Where("employer_id IN ? AND occupation = ?", twinIDs, occupation).
			Count(&existing).Error; err != nil {
			log.Println("Error checking applications:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":    false,
				"error": "Failed to check applications",
			})
		}
		if existing > 0 {
			return c.JSON(fiber.Map{
				"ok":    false,
				"error": fmt.Sprintf("An application for %q already exists for this employer", occupation),
			})
		}
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": "No existing application for this employer and occupation",
	})
}
