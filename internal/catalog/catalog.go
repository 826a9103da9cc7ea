package catalog

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Region is a geographic rate zone.
type Region struct {
	Name                   string             `yaml:"name" json:"name"`
	DisplayName            string             `yaml:"displayName" json:"displayName"`
	LandCostPerPlot        float64            `yaml:"landCostPerPlot" json:"landCostPerPlot"`
	ConstructionCostPerSqm float64            `yaml:"constructionCostPerSqm" json:"constructionCostPerSqm"`
	LaborCostPerDay        float64            `yaml:"laborCostPerDay" json:"laborCostPerDay"`
	BathroomCost           float64            `yaml:"bathroomCost" json:"bathroomCost"`
	FloorMultiplier        float64            `yaml:"floorMultiplier" json:"floorMultiplier"`
	ExternalWorksRate      float64            `yaml:"externalWorksRate" json:"externalWorksRate"`
	LocationFactor         float64            `yaml:"locationFactor" json:"locationFactor"`
	QualityMultipliers     map[string]float64 `yaml:"qualityMultipliers" json:"qualityMultipliers"`
	ProjectTypeMultipliers map[string]float64 `yaml:"projectTypeMultipliers" json:"projectTypeMultipliers"`
	AdditionalFees         map[string]float64 `yaml:"additionalFees" json:"additionalFees"`
}

// FeesTotal sums the region's fee schedule. Keys are visited in sorted order so
// the float sum is identical across calls.
func (r Region) FeesTotal() float64 {
	total := 0.0
	for _, name := range slices.Sorted(maps.Keys(r.AdditionalFees)) {
		total += r.AdditionalFees[name]
	}
	return total
}

func (r Region) clone() Region {
	r.QualityMultipliers = maps.Clone(r.QualityMultipliers)
	r.ProjectTypeMultipliers = maps.Clone(r.ProjectTypeMultipliers)
	r.AdditionalFees = maps.Clone(r.AdditionalFees)
	return r
}

// Defaults are the global rates applied regardless of region.
type Defaults struct {
	MarkupRate      float64 `yaml:"markupRate" json:"markupRate"`
	ContingencyRate float64 `yaml:"contingencyRate" json:"contingencyRate"`
	InflationRate   float64 `yaml:"inflationRate" json:"inflationRate"`
	RiskPremiumRate float64 `yaml:"riskPremiumRate" json:"riskPremiumRate"`
}

// Material is a catalog entry priced per unit and consumed per square meter.
type Material struct {
	Name           string  `yaml:"name" json:"name"`
	Unit           string  `yaml:"unit" json:"unit"`
	CostPerUnit    float64 `yaml:"costPerUnit" json:"costPerUnit"`
	QuantityPerSqm float64 `yaml:"quantityPerSqm" json:"quantityPerSqm"`
}

// MaterialGroup holds the materials of one category, in catalog order.
type MaterialGroup struct {
	Category string     `yaml:"category" json:"category"`
	Items    []Material `yaml:"items" json:"items"`
}

// Worker is a workforce role with a daily rate and productivity.
type Worker struct {
	Role                  string  `yaml:"role" json:"role"`
	DailyRate             float64 `yaml:"dailyRate" json:"dailyRate"`
	ProductivitySqmPerDay float64 `yaml:"productivitySqmPerDay" json:"productivitySqmPerDay"`
	Category              string  `yaml:"category" json:"category"`
}

// WorkerTier holds the workers of one skill tier, in catalog order.
type WorkerTier struct {
	Tier    string   `yaml:"tier" json:"tier"`
	Workers []Worker `yaml:"workers" json:"workers"`
}

// Phase is a named stage of construction used for scheduling display.
type Phase struct {
	Name              string   `yaml:"name" json:"name"`
	DurationDays      int      `yaml:"durationDays" json:"durationDays"`
	PercentageOfTotal float64  `yaml:"percentageOfTotal" json:"percentageOfTotal"`
	Activities        []string `yaml:"activities" json:"activities"`
	RequiredWorkers   []string `yaml:"requiredWorkers" json:"requiredWorkers"`
	RequiredMaterials []string `yaml:"requiredMaterials" json:"requiredMaterials"`
}

func (p Phase) clone() Phase {
	p.Activities = slices.Clone(p.Activities)
	p.RequiredWorkers = slices.Clone(p.RequiredWorkers)
	p.RequiredMaterials = slices.Clone(p.RequiredMaterials)
	return p
}

// Catalog is the full rate dataset. Build it with New; the returned value is
// never mutated and may be shared between goroutines.
type Catalog struct {
	Version       string          `yaml:"version" json:"version"`
	Currency      string          `yaml:"currency" json:"currency"`
	LastUpdated   string          `yaml:"lastUpdated" json:"lastUpdated"`
	DefaultRegion string          `yaml:"defaultRegion" json:"defaultRegion"`
	Defaults      Defaults        `yaml:"defaults" json:"defaults"`
	Regions       []Region        `yaml:"regions" json:"regions"`
	Materials     []MaterialGroup `yaml:"materials" json:"materials"`
	Workers       []WorkerTier    `yaml:"workers" json:"workers"`
	Phases        []Phase         `yaml:"phases" json:"phases"`

	byName   map[string]int
	fallback int
}

// New validates src and returns an indexed copy of it.
func New(src Catalog) (*Catalog, error) {
	if err := validate(src); err != nil {
		return nil, err
	}

	c := &Catalog{
		Version:       src.Version,
		Currency:      src.Currency,
		LastUpdated:   src.LastUpdated,
		DefaultRegion: src.DefaultRegion,
		Defaults:      src.Defaults,
		byName:        make(map[string]int, len(src.Regions)),
	}
	for i, r := range src.Regions {
		c.Regions = append(c.Regions, r.clone())
		c.byName[r.Name] = i
	}
	for _, g := range src.Materials {
		c.Materials = append(c.Materials, MaterialGroup{Category: g.Category, Items: slices.Clone(g.Items)})
	}
	for _, t := range src.Workers {
		c.Workers = append(c.Workers, WorkerTier{Tier: t.Tier, Workers: slices.Clone(t.Workers)})
	}
	for _, p := range src.Phases {
		c.Phases = append(c.Phases, p.clone())
	}
	if c.Currency == "" {
		c.Currency = "GHS"
	}
	if c.DefaultRegion != "" {
		c.fallback = c.byName[c.DefaultRegion]
	}
	return c, nil
}

// Slug turns a typed region name into the catalog's slug form: trimmed,
// lowercase, with runs of spaces replaced by a single hyphen.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// LookupRegion returns the region with the exact slug name.
func (c *Catalog) LookupRegion(name string) (Region, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Region{}, false
	}
	return c.Regions[i].clone(), true
}

// ResolveRegion returns the named region, or the fallback region when the name
// is unknown. It never fails.
func (c *Catalog) ResolveRegion(name string) Region {
	if r, ok := c.LookupRegion(name); ok {
		return r
	}
	return c.FallbackRegion()
}

// FallbackRegion returns the region used for unknown names. A catalog not
// built with New may have no regions; it then returns the zero Region.
func (c *Catalog) FallbackRegion() Region {
	if c.fallback >= len(c.Regions) {
		return Region{}
	}
	return c.Regions[c.fallback].clone()
}

// ResolveMultiplier returns m[key], or 1.0 when the key is absent.
func ResolveMultiplier(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

// RegionList returns copies of all regions in catalog order.
func (c *Catalog) RegionList() []Region {
	out := make([]Region, 0, len(c.Regions))
	for _, r := range c.Regions {
		out = append(out, r.clone())
	}
	return out
}

// MaterialGroups returns copies of the material groups.
func (c *Catalog) MaterialGroups() []MaterialGroup {
	out := make([]MaterialGroup, 0, len(c.Materials))
	for _, g := range c.Materials {
		out = append(out, MaterialGroup{Category: g.Category, Items: slices.Clone(g.Items)})
	}
	return out
}

// WorkerTiers returns copies of the worker tiers.
func (c *Catalog) WorkerTiers() []WorkerTier {
	out := make([]WorkerTier, 0, len(c.Workers))
	for _, t := range c.Workers {
		out = append(out, WorkerTier{Tier: t.Tier, Workers: slices.Clone(t.Workers)})
	}
	return out
}

// PhaseList returns copies of the construction phases in order.
func (c *Catalog) PhaseList() []Phase {
	out := make([]Phase, 0, len(c.Phases))
	for _, p := range c.Phases {
		out = append(out, p.clone())
	}
	return out
}

func validate(c Catalog) error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("%w: no regions", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("%w: region %d has no name", ErrInvalidCatalog, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidCatalog, r.Name)
		}
		seen[r.Name] = true

		for field, v := range map[string]float64{
			"landCostPerPlot":        r.LandCostPerPlot,
			"constructionCostPerSqm": r.ConstructionCostPerSqm,
			"laborCostPerDay":        r.LaborCostPerDay,
			"bathroomCost":           r.BathroomCost,
			"floorMultiplier":        r.FloorMultiplier,
			"externalWorksRate":      r.ExternalWorksRate,
		} {
			if !nonNegative(v) {
				return fmt.Errorf("%w: region %q %s must be a non-negative number", ErrInvalidCatalog, r.Name, field)
			}
		}
		if math.IsNaN(r.LocationFactor) || math.IsInf(r.LocationFactor, 0) || r.LocationFactor <= 0 {
			return fmt.Errorf("%w: region %q locationFactor must be positive", ErrInvalidCatalog, r.Name)
		}
		for _, m := range []map[string]float64{r.QualityMultipliers, r.ProjectTypeMultipliers, r.AdditionalFees} {
			for k, v := range m {
				if !nonNegative(v) {
					return fmt.Errorf("%w: region %q entry %q must be a non-negative number", ErrInvalidCatalog, r.Name, k)
				}
			}
		}
	}
	if c.DefaultRegion != "" && !seen[c.DefaultRegion] {
		return fmt.Errorf("%w: default region %q is not defined", ErrInvalidCatalog, c.DefaultRegion)
	}

	d := c.Defaults
	for _, v := range []float64{d.MarkupRate, d.ContingencyRate, d.InflationRate, d.RiskPremiumRate} {
		if !nonNegative(v) {
			return fmt.Errorf("%w: default rates must be non-negative numbers", ErrInvalidCatalog)
		}
	}

	// Category and name together identify a material; tier and role a worker.
	materials := make(map[[2]string]bool)
	for _, g := range c.Materials {
		for _, m := range g.Items {
			k := [2]string{g.Category, m.Name}
			if materials[k] {
				return fmt.Errorf("%w: duplicate material %q in category %q", ErrInvalidCatalog, m.Name, g.Category)
			}
			materials[k] = true
			if !nonNegative(m.CostPerUnit) || !nonNegative(m.QuantityPerSqm) {
				return fmt.Errorf("%w: material %q has a negative rate", ErrInvalidCatalog, m.Name)
			}
		}
	}
	workers := make(map[[2]string]bool)
	for _, t := range c.Workers {
		for _, w := range t.Workers {
			k := [2]string{t.Tier, w.Role}
			if workers[k] {
				return fmt.Errorf("%w: duplicate worker %q in tier %q", ErrInvalidCatalog, w.Role, t.Tier)
			}
			workers[k] = true
			if !nonNegative(w.DailyRate) {
				return fmt.Errorf("%w: worker %q has a negative daily rate", ErrInvalidCatalog, w.Role)
			}
			if math.IsNaN(w.ProductivitySqmPerDay) || w.ProductivitySqmPerDay <= 0 {
				return fmt.Errorf("%w: worker %q productivity must be positive", ErrInvalidCatalog, w.Role)
			}
		}
	}
	phases := make(map[string]bool, len(c.Phases))
	for _, p := range c.Phases {
		if phases[p.Name] {
			return fmt.Errorf("%w: duplicate phase %q", ErrInvalidCatalog, p.Name)
		}
		phases[p.Name] = true
		if p.DurationDays < 0 {
			return fmt.Errorf("%w: phase %q has a negative duration", ErrInvalidCatalog, p.Name)
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
