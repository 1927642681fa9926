package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/audit-field-study/pairtrack/internal/importer"
)

type ImportHandler struct {
	Importer *importer.Importer
}

func NewImportHandler(im *importer.Importer) *ImportHandler {
	return &ImportHandler{Importer: im}
}

// Pairs accepts a CSV upload (multipart field "file") and upserts the
// pair and profile rows it contains.
func (h *ImportHandler) Pairs(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A CSV file is required in the 'file' field",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Could not open uploaded file",
		})
	}
	defer f.Close()

	stats, err := h.Importer.ImportPairs(f)
	if err != nil {
		log.Println("Error importing pairs:", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
