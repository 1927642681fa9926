package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/services/pairgen"
)

type PairHandler struct {
	DB     *gorm.DB
	GenSvc *pairgen.PairGenService
}

func NewPairHandler(db *gorm.DB, genSvc *pairgen.PairGenService) *PairHandler {
	return &PairHandler{DB: db, GenSvc: genSvc}
}

type GeneratePairRequest struct {
	Location    string `json:"location"`
	Occupation  string `json:"occupation"`
	Archetype   string `json:"archetype"`
	Sublocation *int   `json:"sublocation,omitempty"`
}

type resumeResponse struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Email    string `json:"email"`
	Skills   string `json:"skills"`
	PDFPath  string `json:"pdf_path,omitempty"`
}

// Generate creates one resume pair on demand. Validation failures are
// rejected before any write; render failures come back alongside the
// created records, because the records are the source of truth and the
// PDFs can be re-rendered.
func (h *PairHandler) Generate(c *fiber.Ctx) error {
	var req GeneratePairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Location) == "" || strings.TrimSpace(req.Occupation) == "" ||
		strings.TrimSpace(req.Archetype) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "location, occupation and archetype are required",
		})
	}

	res, err := h.GenSvc.GenerateAndStore(c.Context(), req.Occupation, req.Location, req.Archetype, req.Sublocation)
	if err != nil {
		// Anything failing before the write is a selector problem.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	resumes := make([]resumeResponse, 0, len(res.Profiles))
	for _, p := range res.Profiles {
		resumes = append(resumes, resumeResponse{
			FullName: p.FullName,
			Phone:    p.Phone,
			Address:  p.Address,
			Email:    p.Email,
			Skills:   p.Expertise,
			PDFPath:  p.ResumePDF,
		})
	}

	body := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"pair_id":              res.Pair.PairID,
			"good_fit_occupations": res.Pair.GoodFitOccupations,
			"resume1":              resumes[0],
			"resume2":              resumes[1],
			"folder_path":          res.FolderPath,
		},
	}
	if len(res.RenderErrors) > 0 {
		body["render_errors"] = res.RenderErrors
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// List returns pairs, newest first, optionally filtered by occupation.
func (h *PairHandler) List(c *fiber.Ctx) error {
	q := h.DB.Preload("Profiles").Order("created_at DESC")
	if occ := c.Query("occupation"); occ != "" {
		q = q.Where("occupation = ?", occ)
	}

	var pairs []models.Pair
	if err := q.Find(&pairs).Error; err != nil {
		log.Println("Error fetching pairs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch pairs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pairs,
	})
}

// Get returns a single pair with profiles and applications.
func (h *PairHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pair ID",
		})
	}

	var pair models.Pair
	if err := h.DB.
		Preload("Profiles").
		Preload("Applications").
		Preload("Applications.Employer").
		First(&pair, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Pair not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pair,
	})
}

// Delete removes a pair and its profiles. Pairs referenced by
// applications are protected: the audit history must survive.
func (h *PairHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pair ID",
		})
	}

	var pair models.Pair
	if err := h.DB.First(&pair, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Pair not found",
		})
	}

	var refs int64
	if err := h.DB.Model(&models.PairApplication{}).Where("pair_id = ?", pair.ID).Count(&refs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check references",
		})
	}
	if refs > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Pair has applications and cannot be deleted",
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pair_id = ?", pair.ID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pair).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Pair has applications and cannot be deleted",
			})
		}
		log.Println("Error deleting pair:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete pair",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Pair deleted",
	})
}
