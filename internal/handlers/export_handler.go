package handlers

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/audit-field-study/pairtrack/internal/exporter"
)

type ExportHandler struct {
	Exporter *exporter.Exporter
}

func NewExportHandler(exp *exporter.Exporter) *ExportHandler {
	return &ExportHandler{Exporter: exp}
}

// Applications streams the merged analysis CSV as a download.
func (h *ExportHandler) Applications(c *fiber.Ctx) error {
	var buf bytes.Buffer
	rows, err := h.Exporter.Export(&buf)
	if err != nil {
		log.Println("Error exporting applications:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Export failed",
		})
	}

	filename := fmt.Sprintf("merged_applications_%s.csv", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set("X-Row-Count", fmt.Sprintf("%d", rows))
	return c.Send(buf.Bytes())
}
