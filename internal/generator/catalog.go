package generator

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Choice is one dropdown option surfaced to the entry UI.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Catalog holds the generation allow-lists: which locations exist,
// which census sublocations each location has, and which archetypes
// are defined per occupation. The built-in data matches the study
// design; a YAML file can replace it wholesale for new study waves.
type Catalog struct {
	Locations    []string            `yaml:"locations"`
	Sublocations map[string][]Choice `yaml:"sublocations"`
	Archetypes   map[string][]Choice `yaml:"archetypes"`
	Occupations  []Choice            `yaml:"occupations"`
}

// DefaultCatalog returns the built-in study catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Locations: []string{"GA", "NY", "MA", "IL", "CO", "FLO", "LA", "MI", "PA", "SFO", "TX", "WA", "DMV"},
		Sublocations: map[string][]Choice{
			"GA":  {},
			"NY":  {{Value: "1", Label: "New York-Newark-Jersey City, NY-NJ-PA"}},
			"MA":  {{Value: "1", Label: "Boston-Cambridge-Newton, MA-NH Metro Area"}},
			"IL":  {{Value: "1", Label: "Chicago-Naperville-Elgin, IL-IN Metro Area"}},
			"FLO": {{Value: "1", Label: "Miami-Fort Lauderdale-Pompano Beach, FL"}},
			"LA":  {{Value: "1", Label: "Los Angeles-Long Beach-Anaheim, CA"}},
			"MI":  {{Value: "1", Label: "Detroit-Warren-Dearborn, MI Metro Area"}},
			"SFO": {{Value: "1", Label: "San Francisco-Oakland-Fremont, CA Metro Area"}},
			"WA":  {{Value: "1", Label: "Seattle-Tacoma-Bellevue, WA Metro Area"}},
			"DMV": {{Value: "1", Label: "Washington-Arlington-Alexandria, DC-VA-MD-WV Metro Area"}},
			"CO": {
				{Value: "1", Label: "Boulder, CO Metro Area"},
				{Value: "2", Label: "Glenwood Springs CCD, Garfield County, Colorado"},
			},
			"PA": {
				{Value: "1", Label: "Harrisburg-Carlisle, PA Metro Area"},
				{Value: "2", Label: "Philadelphia-Camden-Wilmington, PA-NJ-DE-MD Metro Area"},
				{Value: "3", Label: "Pittsburgh, PA Metro Area"},
			},
			"TX": {
				{Value: "1", Label: "Austin-Round Rock-Georgetown, TX"},
				{Value: "2", Label: "Dallas-Fort Worth-Arlington, TX Metro Area"},
				{Value: "3", Label: "Houston-The Woodlands-Sugar Land, TX"},
			},
		},
		Archetypes: map[string][]Choice{
			"communications": {
				{Value: "digital_communications_specialist", Label: "Digital Communications Specialist"},
				{Value: "strategic_internal_communications", Label: "Strategic Internal Communication"},
				{Value: "public_relations_specialist", Label: "Public Relations Specialist"},
				{Value: "brand_content_marketing", Label: "Brand Content Marketing"},
			},
			"payroll": {
				{Value: "payroll_systems_specialist", Label: "Payroll Systems Specialist"},
				{Value: "payroll_compliance_manager", Label: "Payroll Compliance Manager"},
				{Value: "hr_payroll_generalist", Label: "HR Payroll Generalist"},
			},
			"project_manager": {
				{Value: "environmental_project_manager", Label: "Environmental Project Manager"},
				{Value: "energy_program_manager", Label: "Energy Program Manager"},
			},
		},
		Occupations: []Choice{
			{Value: "communications", Label: "Communications"},
			{Value: "payroll", Label: "Payroll"},
			{Value: "project_manager", Label: "Project Manager"},
		},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}

// SublocationsFor returns the sublocation choices for a location. An
// unknown or empty location yields an empty list, not an error.
func (c *Catalog) SublocationsFor(location string) []Choice {
	return c.Sublocations[location]
}

// ArchetypesFor returns the archetype choices for an occupation. An
// unknown or empty occupation yields an empty list, not an error.
func (c *Catalog) ArchetypesFor(occupation string) []Choice {
	return c.Archetypes[occupation]
}

// ValidLocation reports whether location is in the allow-list.
func (c *Catalog) ValidLocation(location string) bool {
	for _, l := range c.Locations {
		if l == location {
			return true
		}
	}
	return false
}

// ValidOccupation reports whether occupation is in the allow-list.
func (c *Catalog) ValidOccupation(occupation string) bool {
	for _, o := range c.Occupations {
		if o.Value == occupation {
			return true
		}
	}
	return false
}

// ArchetypeIndex maps an archetype key to its 1-based index within the
// occupation, in catalog order. Returns 0 when the combination is not
// defined.
func (c *Catalog) ArchetypeIndex(occupation, archetype string) int {
	for i, a := range c.Archetypes[occupation] {
		if a.Value == archetype {
			return i + 1
		}
	}
	return 0
}

// ResolveSublocation validates the caller's sublocation choice against
// the location's list. Locations with no sublocations require none;
// locations with exactly one auto-select it when the caller omits a
// choice; anything else must name a defined index.
func (c *Catalog) ResolveSublocation(location string, sublocation *int) (*int, error) {
	subs := c.Sublocations[location]
	if len(subs) == 0 {
		if sublocation != nil {
			return nil, fmt.Errorf("location %s has no sublocations", location)
		}
		return nil, nil
	}
	if sublocation == nil {
		if len(subs) == 1 {
			one := 1
			return &one, nil
		}
		return nil, fmt.Errorf("location %s requires a sublocation (1-%d)", location, len(subs))
	}
	if *sublocation < 1 || *sublocation > len(subs) {
		return nil, fmt.Errorf("sublocation %d is not defined for location %s", *sublocation, location)
	}
	return sublocation, nil
}

// SublocationLabel returns the display label for a resolved
// sublocation index, or "" when none applies.
func (c *Catalog) SublocationLabel(location string, sublocation *int) string {
	if sublocation == nil {
		return ""
	}
	subs := c.Sublocations[location]
	if *sublocation < 1 || *sublocation > len(subs) {
		return ""
	}
	return subs[*sublocation-1].Label
}

// OccupationKeys returns the occupation keys in stable order.
func (c *Catalog) OccupationKeys() []string {
	keys := make([]string, 0, len(c.Occupations))
	for _, o := range c.Occupations {
		keys = append(keys, o.Value)
	}
	sort.Strings(keys)
	return keys
}
