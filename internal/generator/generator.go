// Package generator produces matched resume pairs for the audit study:
// two candidate profiles sharing occupation, location and archetype but
// differing in identity attributes.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResumeData is one synthesized candidate identity.
type ResumeData struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	Skills       string `json:"skills"`
	TemplateName string `json:"template_name"`
}

// PairData is the output of one generation run.
type PairData struct {
	PairID             string     `json:"pair_id"`
	Occupation         string     `json:"occupation"`
	Location           string     `json:"location"`
	Archetype          string     `json:"archetype"`
	Sublocation        *int       `json:"sublocation,omitempty"`
	GoodFitOccupations []string   `json:"good_fit_occupations"`
	Resumes            [2]ResumeData
}

// Generator synthesizes pairs from a catalog and identity pools.
type Generator struct {
	Catalog *Catalog
	rng     *rand.Rand
}

// New returns a Generator seeded from the clock.
func New(cat *Catalog) *Generator {
	return &Generator{
		Catalog: cat,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeeded returns a deterministic Generator for tests.
func NewSeeded(cat *Catalog, seed int64) *Generator {
	return &Generator{Catalog: cat, rng: rand.New(rand.NewSource(seed))}
}

// The two identity pools. Slot 1 draws from the first pool, slot 2 from
// the second; everything else about the pair is held constant.
var firstNamePools = [2][]string{
	{"Emily", "Greg", "Anne", "Matthew", "Claire", "Todd", "Laurie", "Brad"},
	{"Lakisha", "Jamal", "Aisha", "Tyrone", "Keisha", "Darnell", "Tanisha", "Hakim"},
}

var lastNamePools = [2][]string{
	{"Walsh", "Baker", "Murphy", "Sullivan", "O'Brien", "Ryan"},
	{"Washington", "Jefferson", "Booker", "Banks", "Jackson", "Gaines"},
}

var streetNames = []string{
	"Maple Ave", "Oak St", "Cedar Ln", "Elm St", "Washington Blvd",
	"Park Ave", "Lake Dr", "Hill Rd", "2nd Ave", "Main St",
}

var areaCodes = map[string]string{
	"GA": "404", "NY": "212", "MA": "617", "IL": "312", "CO": "303",
	"FLO": "305", "LA": "213", "MI": "313", "PA": "215", "SFO": "415",
	"TX": "512", "WA": "206", "DMV": "202",
}

var goodFitByOccupation = map[string][]string{
	"communications": {
		"Communications Specialist", "Public Relations Coordinator",
		"Content Strategist", "Marketing Communications Associate",
	},
	"payroll": {
		"Payroll Specialist", "Payroll Administrator",
		"HR Operations Coordinator", "Benefits Administrator",
	},
	"project_manager": {
		"Project Manager", "Program Coordinator",
		"Sustainability Project Lead", "Operations Project Manager",
	},
}

var skillsByArchetype = map[string]string{
	"digital_communications_specialist": "Social media strategy, content calendars, email campaign management, web analytics, CMS publishing",
	"strategic_internal_communications": "Internal newsletters, change communication planning, executive messaging, intranet content governance",
	"public_relations_specialist":       "Press releases, media relations, crisis communication, speaking-point preparation, event publicity",
	"brand_content_marketing":           "Brand voice development, long-form content, campaign copywriting, SEO fundamentals, audience segmentation",
	"payroll_systems_specialist":        "ADP Workforce Now, payroll system migrations, wage garnishment processing, payroll data reconciliation",
	"payroll_compliance_manager":        "Multi-state payroll tax compliance, FLSA audits, year-end W-2/1099 processing, vendor audits",
	"hr_payroll_generalist":             "Biweekly payroll runs, onboarding and offboarding, benefits deductions, HRIS recordkeeping",
	"environmental_project_manager":     "Environmental permitting, remediation project scheduling, contractor coordination, budget tracking",
	"energy_program_manager":            "Energy efficiency program rollout, utility stakeholder management, grant reporting, KPI dashboards",
}

var templatesByOccupation = map[string][2]string{
	"communications":  {"comms_classic.html", "comms_modern.html"},
	"payroll":         {"payroll_classic.html", "payroll_modern.html"},
	"project_manager": {"pm_classic.html", "pm_modern.html"},
}

// Generate validates the selectors against the catalog and synthesizes
// a pair. It performs no I/O; persistence and rendering belong to the
// pairgen service.
func (g *Generator) Generate(occupation, location, archetype string, sublocation *int) (*PairData, error) {
	if !g.Catalog.ValidOccupation(occupation) {
		return nil, fmt.Errorf("unknown occupation %q", occupation)
	}
	if !g.Catalog.ValidLocation(location) {
		return nil, fmt.Errorf("unknown location %q", location)
	}
	if g.Catalog.ArchetypeIndex(occupation, archetype) == 0 {
		return nil, fmt.Errorf("archetype %q is not defined for occupation %q", archetype, occupation)
	}
	sub, err := g.Catalog.ResolveSublocation(location, sublocation)
	if err != nil {
		return nil, err
	}

	pairID := fmt.Sprintf("%s_%s_%s", occupation, location, uuid.New().String()[:8])

	pd := &PairData{
		PairID:             pairID,
		Occupation:         occupation,
		Location:           location,
		Archetype:          archetype,
		Sublocation:        sub,
		GoodFitOccupations: goodFitByOccupation[occupation],
	}

	templates := templatesByOccupation[occupation]
	for slot := 0; slot < 2; slot++ {
		first := pick(g.rng, firstNamePools[slot])
		last := pick(g.rng, lastNamePools[slot])
		full := first + " " + last

		pd.Resumes[slot] = ResumeData{
			FullName:     full,
			Phone:        g.phone(location),
			Address:      g.address(location, sub),
			Email:        emailFor(first, last, g.rng),
			Skills:       skillsByArchetype[archetype],
			TemplateName: templates[slot],
		}
	}

	// A pair where both slots drew the same surname pool could still
	// collide on the full name; regenerate slot 2's name in that case.
	for pd.Resumes[0].FullName == pd.Resumes[1].FullName {
		first := pick(g.rng, firstNamePools[1])
		last := pick(g.rng, lastNamePools[1])
		pd.Resumes[1].FullName = first + " " + last
		pd.Resumes[1].Email = emailFor(first, last, g.rng)
	}

	return pd, nil
}

func (g *Generator) phone(location string) string {
	area := areaCodes[location]
	if area == "" {
		area = "555"
	}
	return fmt.Sprintf("(%s) %03d-%04d", area, g.rng.Intn(743)+200, g.rng.Intn(10000))
}

func (g *Generator) address(location string, sublocation *int) string {
	street := pick(g.rng, streetNames)
	num := g.rng.Intn(9000) + 100
	area := g.Catalog.SublocationLabel(location, sublocation)
	if area == "" {
		area = location
	}
	return fmt.Sprintf("%d %s, %s", num, street, area)
}

func emailFor(first, last string, rng *rand.Rand) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "'", "")
		return s
	}
	return fmt.Sprintf("%s.%s%d@gmail.com", clean(first), clean(last), rng.Intn(90)+10)
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}
