package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValidAndOrdered(t *testing.T) {
	c := Default()

	if c.Currency != "GHS" {
		t.Fatalf("currency = %q, want GHS", c.Currency)
	}
	regions := c.RegionList()
	if len(regions) != 5 {
		t.Fatalf("expected 5 regions, got %d", len(regions))
	}
	if regions[0].Name != "accra" {
		t.Fatalf("first region = %q, want accra", regions[0].Name)
	}
	if got := len(c.MaterialGroups()); got != 4 {
		t.Fatalf("expected 4 material groups, got %d", got)
	}
	if got := len(c.PhaseList()); got != 6 {
		t.Fatalf("expected 6 phases, got %d", got)
	}
}

func TestResolveRegion_ExactMatch(t *testing.T) {
	r := Default().ResolveRegion("kumasi")
	if r.DisplayName != "Ashanti (Kumasi)" {
		t.Fatalf("DisplayName = %q", r.DisplayName)
	}
}

func TestResolveRegion_UnknownFallsBackToDefault(t *testing.T) {
	c := Default()

	r := c.ResolveRegion("atlantis")
	if r.Name != "accra" {
		t.Fatalf("fallback region = %q, want accra", r.Name)
	}
	if _, ok := c.LookupRegion("atlantis"); ok {
		t.Fatalf("expected LookupRegion to report a miss")
	}
	if _, ok := c.LookupRegion("Accra"); ok {
		t.Fatalf("lookup must be an exact match")
	}
}

func TestResolveRegion_FirstRegionWithoutDefault(t *testing.T) {
	c, err := New(Catalog{Regions: []Region{
		{Name: "b", LocationFactor: 1},
		{Name: "a", LocationFactor: 1},
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.ResolveRegion("zzz").Name; got != "b" {
		t.Fatalf("fallback = %q, want first region b", got)
	}
}

func TestResolveRegion_ReturnsIsolatedCopy(t *testing.T) {
	c := Default()

	r := c.ResolveRegion("accra")
	r.AdditionalFees["buildingPermit"] = 1e9
	r.QualityMultipliers["standard"] = 99

	again := c.ResolveRegion("accra")
	if again.AdditionalFees["buildingPermit"] != 5000 {
		t.Fatalf("catalog fee schedule was mutated through a resolved region")
	}
	if again.QualityMultipliers["standard"] != 1 {
		t.Fatalf("catalog multipliers were mutated through a resolved region")
	}
}

func TestResolveMultiplier(t *testing.T) {
	m := map[string]float64{"premium": 1.35, "zero": 0}

	if got := ResolveMultiplier(m, "premium"); got != 1.35 {
		t.Fatalf("premium = %v", got)
	}
	if got := ResolveMultiplier(m, "zero"); got != 0 {
		t.Fatalf("explicit zero must be honoured, got %v", got)
	}
	if got := ResolveMultiplier(m, "missing"); got != 1 {
		t.Fatalf("missing = %v, want 1", got)
	}
	if got := ResolveMultiplier(nil, "anything"); got != 1 {
		t.Fatalf("nil map = %v, want 1", got)
	}
}

func TestFeesTotal(t *testing.T) {
	r := Default().ResolveRegion("accra")
	if got := r.FeesTotal(); got != 8000 {
		t.Fatalf("FeesTotal = %v, want 8000", got)
	}
	if got := (Region{}).FeesTotal(); got != 0 {
		t.Fatalf("empty FeesTotal = %v", got)
	}
}

func TestNew_RejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]Catalog{
		"no regions":        {},
		"duplicate":         {Regions: []Region{{Name: "a", LocationFactor: 1}, {Name: "a", LocationFactor: 1}}},
		"unnamed":           {Regions: []Region{{LocationFactor: 1}}},
		"negative rate":     {Regions: []Region{{Name: "a", LocationFactor: 1, ConstructionCostPerSqm: -1}}},
		"zero location":     {Regions: []Region{{Name: "a"}}},
		"unknown default":   {DefaultRegion: "b", Regions: []Region{{Name: "a", LocationFactor: 1}}},
		"negative fee":      {Regions: []Region{{Name: "a", LocationFactor: 1, AdditionalFees: map[string]float64{"x": -1}}}},
		"negative defaults": {Defaults: Defaults{MarkupRate: -0.1}, Regions: []Region{{Name: "a", LocationFactor: 1}}},
		"zero productivity": {
			Regions: []Region{{Name: "a", LocationFactor: 1}},
			Workers: []WorkerTier{{Tier: "t", Workers: []Worker{{Role: "r", DailyRate: 1}}}},
		},
		"duplicate material": {
			Regions: []Region{{Name: "a", LocationFactor: 1}},
			Materials: []MaterialGroup{{Category: "Foundation", Items: []Material{
				{Name: "Cement", CostPerUnit: 95}, {Name: "Cement", CostPerUnit: 100},
			}}},
		},
		"duplicate material across groups": {
			Regions: []Region{{Name: "a", LocationFactor: 1}},
			Materials: []MaterialGroup{
				{Category: "Foundation", Items: []Material{{Name: "Cement"}}},
				{Category: "Foundation", Items: []Material{{Name: "Cement"}}},
			},
		},
		"duplicate worker": {
			Regions: []Region{{Name: "a", LocationFactor: 1}},
			Workers: []WorkerTier{{Tier: "skilled", Workers: []Worker{
				{Role: "Mason", ProductivitySqmPerDay: 10}, {Role: "Mason", ProductivitySqmPerDay: 12},
			}}},
		},
		"duplicate phase": {
			Regions: []Region{{Name: "a", LocationFactor: 1}},
			Phases:  []Phase{{Name: "Roofing", DurationDays: 14}, {Name: "Roofing", DurationDays: 7}},
		},
	}

	for name, src := range cases {
		if _, err := New(src); !errors.Is(err, ErrInvalidCatalog) {
			t.Fatalf("%s: expected ErrInvalidCatalog, got %v", name, err)
		}
	}
}

func TestLoadFile_RoundTripsMarshal(t *testing.T) {
	b, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := c.ResolveRegion("tamale").ConstructionCostPerSqm; got != 2200 {
		t.Fatalf("tamale construction rate = %v", got)
	}
	if c.DefaultRegion != "accra" {
		t.Fatalf("default region = %q", c.DefaultRegion)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("regions: [")); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestNew_AllowsSameNameInDifferentGroups(t *testing.T) {
	_, err := New(Catalog{
		Regions: []Region{{Name: "a", LocationFactor: 1}},
		Materials: []MaterialGroup{
			{Category: "Foundation", Items: []Material{{Name: "Cement"}}},
			{Category: "Walling", Items: []Material{{Name: "Cement"}}},
		},
		Workers: []WorkerTier{
			{Tier: "skilled", Workers: []Worker{{Role: "Labourer", ProductivitySqmPerDay: 8}}},
			{Tier: "unskilled", Workers: []Worker{{Role: "Labourer", ProductivitySqmPerDay: 8}}},
		},
	})
	if err != nil {
		t.Fatalf("expected catalog to be valid, got %v", err)
	}
}

func TestFallbackRegion_UnbuiltCatalog(t *testing.T) {
	c := &Catalog{}
	if r := c.ResolveRegion("accra"); r.Name != "" {
		t.Fatalf("expected zero region, got %+v", r)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Kumasi":          "kumasi",
		"  Cape   Coast ": "cape-coast",
		"accra":           "accra",
		"":                "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
