// Package mcptools exposes the estimator as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/estimate"
	"github.com/Muhammad-div/ghanabuild/internal/report"
	"github.com/Muhammad-div/ghanabuild/internal/takeoff"
)

// Tools holds the catalog the tool handlers read from.
type Tools struct {
	Catalog *catalog.Catalog
}

// --- Input types ---

type EstimateInput struct {
	Region               string   `json:"region" jsonschema:"Region name, e.g. accra or kumasi. Unknown names fall back to the default region"`
	ProjectType          string   `json:"projectType,omitempty" jsonschema:"Project type, e.g. residential or commercial"`
	TotalFloorArea       float64  `json:"totalFloorArea" jsonschema:"Total floor area, greater than 0"`
	AreaUnit             string   `json:"areaUnit,omitempty" jsonschema:"square-meters (default) or square-feet"`
	NumberOfBathrooms    int      `json:"numberOfBathrooms" jsonschema:"Number of bathrooms, 1 to 10"`
	NumberOfFloors       int      `json:"numberOfFloors" jsonschema:"Number of floors, 1 to 5"`
	FinishQuality        string   `json:"finishQuality,omitempty" jsonschema:"Finish quality: standard, premium, luxury or eco-friendly"`
	IncludeExternalWorks bool     `json:"includeExternalWorks,omitempty" jsonschema:"Include external works such as fencing and landscaping"`
	CustomLandCost       *float64 `json:"customLandCost,omitempty" jsonschema:"Override the land cost per plot"`
	CustomMaterialCost   *float64 `json:"customMaterialCost,omitempty" jsonschema:"Override the construction cost per square meter"`
	CustomLaborCost      *float64 `json:"customLaborCost,omitempty" jsonschema:"Override the daily labour rate (display only)"`
}

type TakeoffInput struct {
	TotalFloorArea float64 `json:"totalFloorArea" jsonschema:"Total floor area, greater than 0"`
	AreaUnit       string  `json:"areaUnit,omitempty" jsonschema:"square-meters (default) or square-feet"`
	Sort           string  `json:"sort,omitempty" jsonschema:"Sort key: name, cost, quantity, rate or days"`
	Order          string  `json:"order,omitempty" jsonschema:"asc (default) or desc"`
	Query          string  `json:"query,omitempty" jsonschema:"Case-insensitive filter on name and category"`
}

type EmptyInput struct{}

// --- Output types ---

type MaterialTakeoff struct {
	AreaSqm    float64                    `json:"areaSqm"`
	Categories []takeoff.MaterialCategory `json:"categories"`
	Total      float64                    `json:"total"`
}

type WorkforcePlan struct {
	AreaSqm float64              `json:"areaSqm"`
	Workers []takeoff.WorkerLine `json:"workers"`
	Total   float64              `json:"total"`
}

type RegionSummary struct {
	Name                   string  `json:"name"`
	DisplayName            string  `json:"displayName"`
	ConstructionCostPerSqm float64 `json:"constructionCostPerSqm"`
	LandCostPerPlot        float64 `json:"landCostPerPlot"`
	LocationFactor         float64 `json:"locationFactor"`
	Default                bool    `json:"default"`
}

// --- Handlers ---

func (t *Tools) EstimateCost(_ context.Context, _ *mcp.CallToolRequest, input EstimateInput) (*mcp.CallToolResult, any, error) {
	b, err := estimate.Compute(input.request(), t.Catalog)
	if err != nil {
		return inputError(err), nil, nil
	}
	return toolJSON(report.Summary(b))
}

func (in EstimateInput) request() estimate.Request {
	req := estimate.Request{
		Region:               in.Region,
		ProjectType:          in.ProjectType,
		TotalFloorArea:       estimate.Number(in.TotalFloorArea),
		AreaUnit:             in.AreaUnit,
		NumberOfBathrooms:    estimate.Int(in.NumberOfBathrooms),
		NumberOfFloors:       estimate.Int(in.NumberOfFloors),
		FinishQuality:        in.FinishQuality,
		IncludeExternalWorks: in.IncludeExternalWorks,
	}
	if in.CustomLandCost != nil {
		req.UseCustomLandCost, req.CustomLandCost = true, estimate.Number(*in.CustomLandCost)
	}
	if in.CustomMaterialCost != nil {
		req.UseCustomMaterialCost, req.CustomMaterialCost = true, estimate.Number(*in.CustomMaterialCost)
	}
	if in.CustomLaborCost != nil {
		req.UseCustomLaborCost, req.CustomLaborCost = true, estimate.Number(*in.CustomLaborCost)
	}
	return req
}

func (t *Tools) ListRegions(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	fallback := t.Catalog.FallbackRegion().Name
	regions := t.Catalog.RegionList()
	out := make([]RegionSummary, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionSummary{
			Name:                   r.Name,
			DisplayName:            r.DisplayName,
			ConstructionCostPerSqm: r.ConstructionCostPerSqm,
			LandCostPerPlot:        r.LandCostPerPlot,
			LocationFactor:         r.LocationFactor,
			Default:                r.Name == fallback,
		})
	}
	return toolJSON(out)
}

func (t *Tools) MaterialTakeoff(_ context.Context, _ *mcp.CallToolRequest, input TakeoffInput) (*mcp.CallToolResult, any, error) {
	area, err := estimate.AreaSqm(estimate.Number(input.TotalFloorArea), input.AreaUnit)
	if err != nil {
		return inputError(err), nil, nil
	}

	lines := takeoff.MaterialLineItems(area, t.Catalog.MaterialGroups())
	lines = takeoff.SortMaterials(takeoff.FilterMaterials(lines, input.Query), input.Sort, isDesc(input.Order))
	return toolJSON(MaterialTakeoff{
		AreaSqm:    area,
		Categories: takeoff.GroupMaterials(lines),
		Total:      takeoff.MaterialsTotal(lines),
	})
}

func (t *Tools) WorkerRequirements(_ context.Context, _ *mcp.CallToolRequest, input TakeoffInput) (*mcp.CallToolResult, any, error) {
	area, err := estimate.AreaSqm(estimate.Number(input.TotalFloorArea), input.AreaUnit)
	if err != nil {
		return inputError(err), nil, nil
	}

	lines := takeoff.WorkerRequirements(area, t.Catalog.WorkerTiers())
	lines = takeoff.SortWorkers(takeoff.FilterWorkers(lines, input.Query), input.Sort, isDesc(input.Order))
	return toolJSON(WorkforcePlan{
		AreaSqm: area,
		Workers: lines,
		Total:   takeoff.WorkersTotal(lines),
	})
}

func (t *Tools) ConstructionSchedule(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	return toolJSON(takeoff.ScheduleSummary(t.Catalog.PhaseList()))
}

func isDesc(order string) bool {
	return strings.EqualFold(strings.TrimSpace(order), "desc")
}

func inputError(err error) *mcp.CallToolResult {
	if details := estimate.Details(err); len(details) > 0 {
		return toolError("Invalid input: %s", strings.Join(details, "; "))
	}
	if errors.Is(err, estimate.ErrInvalidInput) {
		return toolError("Invalid input")
	}
	return toolError("Estimate failed: %v", err)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
