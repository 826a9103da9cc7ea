package estimate

import (
	"errors"
	"fmt"
	"math"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

const (
	MinBathrooms = 1
	MaxBathrooms = 10
	MinFloors    = 1
	MaxFloors    = 5
)

// RegionData echoes the rates the estimate was computed with.
type RegionData struct {
	Name                   string             `json:"name"`
	Slug                   string             `json:"slug"`
	Fallback               bool               `json:"fallback"`
	LandCostPerPlot        float64            `json:"landCostPerPlot"`
	ConstructionCostPerSqm float64            `json:"constructionCostPerSqm"`
	LaborCostPerDay        float64            `json:"laborCostPerDay"`
	BathroomCost           float64            `json:"bathroomCost"`
	FloorMultiplier        float64            `json:"floorMultiplier"`
	ExternalWorksRate      float64            `json:"externalWorksRate"`
	LocationFactor         float64            `json:"locationFactor"`
	QualityMultiplier      float64            `json:"qualityMultiplier"`
	ProjectTypeMultiplier  float64            `json:"projectTypeMultiplier"`
	AdditionalFees         map[string]float64 `json:"additionalFees"`
	CustomLandCost         bool               `json:"customLandCost"`
	CustomMaterialCost     bool               `json:"customMaterialCost"`
	CustomLaborCost        bool               `json:"customLaborCost"`
}

// ProjectDetails is the normalized request.
type ProjectDetails struct {
	Region               string   `json:"region"`
	ProjectType          string   `json:"projectType"`
	FinishQuality        string   `json:"finishQuality"`
	TotalFloorArea       float64  `json:"totalFloorArea"`
	AreaUnit             AreaUnit `json:"areaUnit"`
	AreaSqm              float64  `json:"areaSqm"`
	NumberOfBathrooms    int      `json:"numberOfBathrooms"`
	NumberOfFloors       int      `json:"numberOfFloors"`
	IncludeExternalWorks bool     `json:"includeExternalWorks"`
}

// Breakdown is the itemized result of an estimate.
type Breakdown struct {
	AreaSqm             float64 `json:"areaSqm"`
	LandCost            float64 `json:"landCost"`
	ConstructionCost    float64 `json:"constructionCost"`
	BaseCost            float64 `json:"baseCost"`
	BathroomCost        float64 `json:"bathroomCost"`
	ExternalWorksCost   float64 `json:"externalWorksCost"`
	AdditionalFees      float64 `json:"additionalFees"`
	Markup              float64 `json:"markup"`
	Contingency         float64 `json:"contingency"`
	LocationAdjustment  float64 `json:"locationAdjustment"`
	InflationAdjustment float64 `json:"inflationAdjustment"`
	RiskPremium         float64 `json:"riskPremium"`
	Subtotal            float64 `json:"subtotal"`
	TotalCost           float64 `json:"totalCost"`
	Currency            string  `json:"currency"`

	RegionData     RegionData     `json:"regionData"`
	ProjectDetails ProjectDetails `json:"projectDetails"`
}

type parsedInput struct {
	area      float64
	unit      AreaUnit
	bathrooms int
	floors    int
}

// Compute derives the cost breakdown for req from the rates in cat. The steps
// run in a fixed order; each multiplier applies to the running construction
// cost and every percentage adjustment uses the post-floor base cost.
func Compute(req Request, cat *catalog.Catalog) (Breakdown, error) {
	if cat == nil || len(cat.Regions) == 0 {
		return Breakdown{}, &InputError{Details: []string{"rate catalog is not loaded"}}
	}

	in, err := parseInput(req)
	if err != nil {
		return Breakdown{}, err
	}

	// 1. region and overrides
	_, exact := cat.LookupRegion(req.Region)
	region := cat.ResolveRegion(req.Region)

	landRate := region.LandCostPerPlot
	customLand := false
	if v, ok := override(req.UseCustomLandCost, req.CustomLandCost); ok {
		landRate, customLand = v, true
	}
	constructionRate := region.ConstructionCostPerSqm
	customMaterial := false
	if v, ok := override(req.UseCustomMaterialCost, req.CustomMaterialCost); ok {
		constructionRate, customMaterial = v, true
	}
	laborRate := region.LaborCostPerDay
	customLabor := false
	if v, ok := override(req.UseCustomLaborCost, req.CustomLaborCost); ok {
		laborRate, customLabor = v, true
	}

	// 2. area
	areaSqm := in.area
	if in.unit == SquareFeet {
		areaSqm = in.area * SqftToSqm
	}

	// 3-5. construction, quality, project type
	constructionCost := areaSqm * constructionRate
	qualityMultiplier := catalog.ResolveMultiplier(region.QualityMultipliers, req.FinishQuality)
	typeMultiplier := catalog.ResolveMultiplier(region.ProjectTypeMultipliers, req.ProjectType)
	adjusted := constructionCost * qualityMultiplier
	adjusted *= typeMultiplier

	// 6. bathrooms
	bathroomCost := float64(in.bathrooms) * region.BathroomCost

	// 7. floors
	extraFloors := max(0, in.floors-1)
	adjusted *= 1 + float64(extraFloors)*region.FloorMultiplier

	// 8. external works
	externalWorks := 0.0
	if req.IncludeExternalWorks {
		externalWorks = adjusted * region.ExternalWorksRate
	}

	// 9. fees
	fees := region.FeesTotal()

	// 10. adjustments
	d := cat.Defaults
	markup := adjusted * d.MarkupRate
	contingency := adjusted * d.ContingencyRate
	location := adjusted * (region.LocationFactor - 1)
	inflation := adjusted * d.InflationRate
	risk := adjusted * d.RiskPremiumRate

	// 11-12. totals
	subtotal := adjusted + bathroomCost + externalWorks + fees
	total := subtotal + markup + contingency + location + inflation + risk + landRate

	return Breakdown{
		AreaSqm:             areaSqm,
		LandCost:            landRate,
		ConstructionCost:    constructionCost,
		BaseCost:            adjusted,
		BathroomCost:        bathroomCost,
		ExternalWorksCost:   externalWorks,
		AdditionalFees:      fees,
		Markup:              markup,
		Contingency:         contingency,
		LocationAdjustment:  location,
		InflationAdjustment: inflation,
		RiskPremium:         risk,
		Subtotal:            subtotal,
		TotalCost:           total,
		Currency:            cat.Currency,
		RegionData: RegionData{
			Name:                   displayName(region),
			Slug:                   region.Name,
			Fallback:               !exact,
			LandCostPerPlot:        landRate,
			ConstructionCostPerSqm: constructionRate,
			LaborCostPerDay:        laborRate,
			BathroomCost:           region.BathroomCost,
			FloorMultiplier:        region.FloorMultiplier,
			ExternalWorksRate:      region.ExternalWorksRate,
			LocationFactor:         region.LocationFactor,
			QualityMultiplier:      qualityMultiplier,
			ProjectTypeMultiplier:  typeMultiplier,
			AdditionalFees:         region.AdditionalFees,
			CustomLandCost:         customLand,
			CustomMaterialCost:     customMaterial,
			CustomLaborCost:        customLabor,
		},
		ProjectDetails: ProjectDetails{
			Region:               req.Region,
			ProjectType:          req.ProjectType,
			FinishQuality:        req.FinishQuality,
			TotalFloorArea:       in.area,
			AreaUnit:             in.unit,
			AreaSqm:              areaSqm,
			NumberOfBathrooms:    in.bathrooms,
			NumberOfFloors:       in.floors,
			IncludeExternalWorks: req.IncludeExternalWorks,
		},
	}, nil
}

func displayName(r catalog.Region) string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

func parseInput(req Request) (parsedInput, error) {
	var in parsedInput
	var details []string

	unit, ok := ParseAreaUnit(req.AreaUnit)
	if !ok {
		details = append(details, fmt.Sprintf("areaUnit %q must be square-meters or square-feet", req.AreaUnit))
	}
	in.unit = unit

	area, err := req.TotalFloorArea.Float()
	switch {
	case errors.Is(err, errMissing):
		details = append(details, "totalFloorArea is required")
	case err != nil:
		details = append(details, "totalFloorArea: "+err.Error())
	case area <= 0:
		details = append(details, "totalFloorArea must be greater than 0")
	}
	in.area = area

	var detail string
	in.bathrooms, detail = parseCount("numberOfBathrooms", req.NumberOfBathrooms, MinBathrooms, MaxBathrooms)
	if detail != "" {
		details = append(details, detail)
	}
	in.floors, detail = parseCount("numberOfFloors", req.NumberOfFloors, MinFloors, MaxFloors)
	if detail != "" {
		details = append(details, detail)
	}

	if len(details) > 0 {
		return parsedInput{}, &InputError{Details: details}
	}
	return in, nil
}

func parseCount(field string, v Value, lo, hi int) (int, string) {
	f, err := v.Float()
	if errors.Is(err, errMissing) {
		return 0, field + " is required"
	}
	if err != nil {
		return 0, field + ": " + err.Error()
	}
	if f != math.Trunc(f) || f < float64(lo) || f > float64(hi) {
		return 0, fmt.Sprintf("%s must be an integer between %d and %d", field, lo, hi)
	}
	return int(f), ""
}
