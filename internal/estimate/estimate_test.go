package estimate

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func relativelyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if diff > 1e-6*math.Max(math.Abs(want), 1) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func accraRequest() Request {
	return Request{
		Region:               "accra",
		ProjectType:          "residential",
		TotalFloorArea:       Number(200),
		AreaUnit:             "sqm",
		NumberOfBathrooms:    Int(3),
		NumberOfFloors:       Int(2),
		FinishQuality:        "standard",
		IncludeExternalWorks: true,
	}
}

func TestCompute_AccraScenario(t *testing.T) {
	b, err := Compute(accraRequest(), catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	nearlyEqual(t, "areaSqm", b.AreaSqm, 200)
	nearlyEqual(t, "constructionCost", b.ConstructionCost, 600000)
	nearlyEqual(t, "baseCost", b.BaseCost, 660000)
	nearlyEqual(t, "bathroomCost", b.BathroomCost, 45000)
	nearlyEqual(t, "externalWorksCost", b.ExternalWorksCost, 33000)
	nearlyEqual(t, "additionalFees", b.AdditionalFees, 8000)
	nearlyEqual(t, "markup", b.Markup, 99000)
	nearlyEqual(t, "contingency", b.Contingency, 33000)
	nearlyEqual(t, "locationAdjustment", b.LocationAdjustment, 66000)
	nearlyEqual(t, "inflationAdjustment", b.InflationAdjustment, 19800)
	nearlyEqual(t, "riskPremium", b.RiskPremium, 33000)
	nearlyEqual(t, "subtotal", b.Subtotal, 746000)
	nearlyEqual(t, "landCost", b.LandCost, 500000)
	nearlyEqual(t, "totalCost", b.TotalCost, 1496800)

	if b.Currency != "GHS" {
		t.Fatalf("currency = %q", b.Currency)
	}
	if b.RegionData.Name != "Greater Accra" || b.RegionData.Fallback {
		t.Fatalf("unexpected region data: %+v", b.RegionData)
	}
	if b.ProjectDetails.NumberOfFloors != 2 || b.ProjectDetails.AreaUnit != SquareMeters {
		t.Fatalf("unexpected project details: %+v", b.ProjectDetails)
	}
}

func TestCompute_TotalIsSumOfLineItems(t *testing.T) {
	req := accraRequest()
	req.FinishQuality = "luxury"
	req.ProjectType = "commercial"
	req.NumberOfFloors = Int(4)

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	sum := b.BaseCost + b.BathroomCost + b.ExternalWorksCost + b.AdditionalFees +
		b.Markup + b.Contingency + b.LocationAdjustment + b.InflationAdjustment + b.RiskPremium + b.LandCost
	relativelyEqual(t, "totalCost", b.TotalCost, sum)
	// 200 * 3000 * 1.8 * 1.25 * (1 + 3*0.1)
	relativelyEqual(t, "baseCost", b.BaseCost, 1755000)
}

func TestCompute_ExternalWorksToggle(t *testing.T) {
	req := accraRequest()
	req.IncludeExternalWorks = false

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "externalWorksCost", b.ExternalWorksCost, 0)
	nearlyEqual(t, "totalCost", b.TotalCost, 1496800-33000)
}

func TestCompute_SingleFloorHasNoSurcharge(t *testing.T) {
	req := accraRequest()
	req.NumberOfFloors = Int(1)

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "baseCost", b.BaseCost, 600000)
}

func TestCompute_IsDeterministic(t *testing.T) {
	cat := catalog.Default()
	req := accraRequest()
	req.FinishQuality = "premium"

	first, err := Compute(req, cat)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want, _ := json.Marshal(first)

	for i := 0; i < 20; i++ {
		b, err := Compute(req, cat)
		if err != nil {
			t.Fatalf("Compute (iteration=%d): %v", i, err)
		}
		got, _ := json.Marshal(b)
		if string(got) != string(want) {
			t.Fatalf("iteration %d differs:\n%s\n%s", i, got, want)
		}
	}
}

func TestCompute_AreaUnitEquivalence(t *testing.T) {
	cat := catalog.Default()

	sqft := accraRequest()
	sqft.AreaUnit = "square-feet"
	sqft.TotalFloorArea = Number(2000)

	sqm := accraRequest()
	sqm.AreaUnit = "square-meters"
	sqm.TotalFloorArea = Number(2000 * SqftToSqm)

	a, err := Compute(sqft, cat)
	if err != nil {
		t.Fatalf("Compute sqft: %v", err)
	}
	b, err := Compute(sqm, cat)
	if err != nil {
		t.Fatalf("Compute sqm: %v", err)
	}

	relativelyEqual(t, "areaSqm", a.AreaSqm, b.AreaSqm)
	relativelyEqual(t, "baseCost", a.BaseCost, b.BaseCost)
	relativelyEqual(t, "externalWorksCost", a.ExternalWorksCost, b.ExternalWorksCost)
	relativelyEqual(t, "markup", a.Markup, b.Markup)
	relativelyEqual(t, "totalCost", a.TotalCost, b.TotalCost)
}

func TestCompute_DefaultsToSquareMeters(t *testing.T) {
	req := accraRequest()
	req.AreaUnit = ""

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if b.ProjectDetails.AreaUnit != SquareMeters {
		t.Fatalf("area unit = %q", b.ProjectDetails.AreaUnit)
	}
	nearlyEqual(t, "areaSqm", b.AreaSqm, 200)
}

func TestCompute_OverridePrecedence(t *testing.T) {
	cat := catalog.Default()

	req := accraRequest()
	req.UseCustomMaterialCost = true
	req.CustomMaterialCost = Number(2000)
	req.UseCustomLandCost = true
	req.CustomLandCost = Number(0)

	b, err := Compute(req, cat)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "constructionCost", b.ConstructionCost, 400000)
	nearlyEqual(t, "baseCost", b.BaseCost, 440000)
	nearlyEqual(t, "markup", b.Markup, 66000)
	nearlyEqual(t, "landCost", b.LandCost, 0)
	if !b.RegionData.CustomMaterialCost || !b.RegionData.CustomLandCost {
		t.Fatalf("expected custom flags set: %+v", b.RegionData)
	}
	nearlyEqual(t, "regionData.constructionCostPerSqm", b.RegionData.ConstructionCostPerSqm, 2000)

	req.UseCustomMaterialCost = false
	req.UseCustomLandCost = false
	reverted, err := Compute(req, cat)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "reverted baseCost", reverted.BaseCost, 660000)
	nearlyEqual(t, "reverted landCost", reverted.LandCost, 500000)
	if reverted.RegionData.CustomMaterialCost || reverted.RegionData.CustomLandCost {
		t.Fatalf("expected custom flags cleared: %+v", reverted.RegionData)
	}
}

func TestCompute_InvalidOverridesAreIgnored(t *testing.T) {
	for _, raw := range []Value{"", "abc", "-5", "NaN", "Inf"} {
		req := accraRequest()
		req.UseCustomLandCost = true
		req.CustomLandCost = raw
		req.UseCustomMaterialCost = true
		req.CustomMaterialCost = raw

		b, err := Compute(req, catalog.Default())
		if err != nil {
			t.Fatalf("override %q: unexpected error %v", raw, err)
		}
		nearlyEqual(t, "landCost", b.LandCost, 500000)
		nearlyEqual(t, "baseCost", b.BaseCost, 660000)
		if b.RegionData.CustomLandCost || b.RegionData.CustomMaterialCost {
			t.Fatalf("override %q should be rejected", raw)
		}
	}
}

func TestCompute_NegativeLaborOverrideKeepsRegionalRate(t *testing.T) {
	req := accraRequest()
	req.UseCustomLaborCost = true
	req.CustomLaborCost = Number(-5)

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "laborCostPerDay", b.RegionData.LaborCostPerDay, 150)
	if b.RegionData.CustomLaborCost {
		t.Fatalf("negative labor override must be rejected")
	}

	req.CustomLaborCost = Number(175)
	b, err = Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "laborCostPerDay", b.RegionData.LaborCostPerDay, 175)
	nearlyEqual(t, "totalCost", b.TotalCost, 1496800)
}

func TestCompute_FeesAreAreaIndependent(t *testing.T) {
	cat := catalog.Default()
	for _, area := range []float64{50, 200, 900} {
		for _, quality := range []string{"standard", "luxury"} {
			req := accraRequest()
			req.TotalFloorArea = Number(area)
			req.FinishQuality = quality
			req.NumberOfFloors = Int(5)

			b, err := Compute(req, cat)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			nearlyEqual(t, "additionalFees", b.AdditionalFees, 8000)
		}
	}
}

func TestCompute_NonNegativeAndMonotonic(t *testing.T) {
	cat := catalog.Default()
	for _, region := range []string{"accra", "kumasi", "tamale", "takoradi", "cape-coast"} {
		var prev Breakdown
		for i, area := range []float64{1, 50, 120, 500, 2500} {
			req := accraRequest()
			req.Region = region
			req.TotalFloorArea = Number(area)

			b, err := Compute(req, cat)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}

			v := reflect.ValueOf(b)
			for j := 0; j < v.NumField(); j++ {
				if f, ok := v.Field(j).Interface().(float64); ok && f < 0 {
					t.Fatalf("%s area=%v: %s is negative (%v)", region, area, v.Type().Field(j).Name, f)
				}
			}

			if i > 0 {
				if b.BaseCost < prev.BaseCost || b.Markup < prev.Markup ||
					b.Contingency < prev.Contingency || b.TotalCost < prev.TotalCost {
					t.Fatalf("%s: costs decreased from area %v to %v", region, prev.AreaSqm, b.AreaSqm)
				}
			}
			prev = b
		}
	}
}

func TestCompute_UnknownRegionFallsBack(t *testing.T) {
	req := accraRequest()
	req.Region = "Wakanda"

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if b.RegionData.Name != "Greater Accra" || !b.RegionData.Fallback {
		t.Fatalf("expected fallback to Greater Accra, got %+v", b.RegionData)
	}
	if b.ProjectDetails.Region != "Wakanda" {
		t.Fatalf("project details should echo the requested region, got %q", b.ProjectDetails.Region)
	}
	nearlyEqual(t, "totalCost", b.TotalCost, 1496800)
}

func TestCompute_UnknownQualityAndTypeAreNeutral(t *testing.T) {
	req := accraRequest()
	req.FinishQuality = "gold-plated"
	req.ProjectType = "spaceport"

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	nearlyEqual(t, "qualityMultiplier", b.RegionData.QualityMultiplier, 1)
	nearlyEqual(t, "projectTypeMultiplier", b.RegionData.ProjectTypeMultiplier, 1)
	nearlyEqual(t, "totalCost", b.TotalCost, 1496800)
}

func TestCompute_InvalidArea(t *testing.T) {
	req := accraRequest()
	req.TotalFloorArea = "abc"

	b, err := Compute(req, catalog.Default())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !reflect.DeepEqual(b, Breakdown{}) {
		t.Fatalf("expected zero breakdown on error, got %+v", b)
	}
	if d := Details(err); len(d) != 1 {
		t.Fatalf("expected 1 detail, got %v", d)
	}
}

func TestCompute_RejectsOutOfRangeCounts(t *testing.T) {
	cases := []struct {
		name      string
		area      Value
		bathrooms Value
		floors    Value
		unit      string
	}{
		{"zero area", "0", "3", "2", ""},
		{"negative area", "-10", "3", "2", ""},
		{"missing area", "", "3", "2", ""},
		{"infinite area", "Inf", "3", "2", ""},
		{"zero bathrooms", "200", "0", "2", ""},
		{"eleven bathrooms", "200", "11", "2", ""},
		{"fractional bathrooms", "200", "2.5", "2", ""},
		{"six floors", "200", "3", "6", ""},
		{"missing floors", "200", "3", "", ""},
		{"floors text", "200", "3", "two", ""},
		{"unknown unit", "200", "3", "2", "acres"},
	}

	for _, tc := range cases {
		req := accraRequest()
		req.TotalFloorArea = tc.area
		req.NumberOfBathrooms = tc.bathrooms
		req.NumberOfFloors = tc.floors
		req.AreaUnit = tc.unit

		if _, err := Compute(req, catalog.Default()); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestCompute_CollectsAllDetails(t *testing.T) {
	req := accraRequest()
	req.TotalFloorArea = "abc"
	req.NumberOfBathrooms = "x"
	req.NumberOfFloors = "9"

	_, err := Compute(req, catalog.Default())
	if got := len(Details(err)); got != 3 {
		t.Fatalf("expected 3 details, got %d (%v)", got, err)
	}
}

func TestCompute_NilCatalog(t *testing.T) {
	if _, err := Compute(accraRequest(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompute_CatalogWithoutRegions(t *testing.T) {
	if _, err := Compute(accraRequest(), &catalog.Catalog{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRequest_UnmarshalLooseJSON(t *testing.T) {
	body := `{
		"region": "kumasi",
		"projectType": "commercial",
		"totalFloorArea": "1500",
		"areaUnit": "sqft",
		"numberOfBathrooms": 2,
		"numberOfFloors": "1",
		"preferredFinishQuality": "premium",
		"includeExternalWorks": true,
		"useCustomLandCost": true,
		"customLandCost": null
	}`

	var req Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.FinishQuality != "premium" {
		t.Fatalf("finish quality alias not applied: %q", req.FinishQuality)
	}
	if req.TotalFloorArea != "1500" || req.NumberOfBathrooms != "2" {
		t.Fatalf("unexpected numeric values: %+v", req)
	}

	b, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if b.RegionData.CustomLandCost {
		t.Fatalf("null override must be ignored")
	}
	relativelyEqual(t, "areaSqm", b.AreaSqm, 1500*SqftToSqm)
}

func TestValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
		C Value `json:"c"`
	}{A: "12.5", B: "abc", C: ""})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":12.5,"b":"abc","c":null}` {
		t.Fatalf("unexpected JSON: %s", out)
	}
}

func TestAreaSqm(t *testing.T) {
	got, err := AreaSqm("1000", "sqft")
	if err != nil {
		t.Fatalf("AreaSqm: %v", err)
	}
	nearlyEqual(t, "sqft area", got, 92.903)

	if got, err := AreaSqm(Number(150), ""); err != nil || got != 150 {
		t.Fatalf("AreaSqm(150) = %v, %v", got, err)
	}
	for _, tc := range []struct {
		area Value
		unit string
	}{{"", "sqm"}, {"-3", "sqm"}, {"abc", "sqm"}, {"10", "acres"}} {
		if _, err := AreaSqm(tc.area, tc.unit); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("AreaSqm(%q, %q): expected ErrInvalidInput, got %v", tc.area, tc.unit, err)
		}
	}
}
