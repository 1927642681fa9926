package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/audit-field-study/pairtrack/internal/generator"
)

// LookupHandler serves the dropdown data for the generation form.
type LookupHandler struct {
	Catalog *generator.Catalog
}

func NewLookupHandler(cat *generator.Catalog) *LookupHandler {
	return &LookupHandler{Catalog: cat}
}

// Sublocations returns the sublocation choices for a location. An
// empty or unknown location yields an empty list, not an error.
func (h *LookupHandler) Sublocations(c *fiber.Ctx) error {
	location := c.Query("location")
	choices := h.Catalog.SublocationsFor(location)
	if choices == nil {
		choices = []generator.Choice{}
	}
	return c.JSON(fiber.Map{
		"sublocations": choices,
	})
}

// Archetypes returns the archetype choices for an occupation. An empty
// or unknown occupation yields an empty list, not an error.
func (h *LookupHandler) Archetypes(c *fiber.Ctx) error {
	occupation := c.Query("occupation")
	choices := h.Catalog.ArchetypesFor(occupation)
	if choices == nil {
		choices = []generator.Choice{}
	}
	return c.JSON(fiber.Map{
		"archetypes": choices,
	})
}

// Occupations returns the study's occupation list.
func (h *LookupHandler) Occupations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"occupations": h.Catalog.Occupations,
	})
}

// Locations returns the study's location codes.
func (h *LookupHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"locations": h.Catalog.Locations,
	})
}
