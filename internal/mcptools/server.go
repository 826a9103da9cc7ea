package mcptools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

// NewServer creates an MCP server with every estimator tool registered.
func NewServer(cat *catalog.Catalog, version string) *mcp.Server {
	t := &Tools{Catalog: cat}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "ghanabuild",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "estimate_cost",
		Description: "Estimate the total construction cost of a building project in Ghana, itemized in GHS",
	}, t.EstimateCost)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_regions",
		Description: "List the regions with rate data and mark the default region",
	}, t.ListRegions)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "material_takeoff",
		Description: "Material quantities and costs for a floor area, grouped by category",
	}, t.MaterialTakeoff)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "worker_requirements",
		Description: "Worker days and labour cost per role for a floor area",
	}, t.WorkerRequirements)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "construction_schedule",
		Description: "Construction phases laid end to end with start and end days",
	}, t.ConstructionSchedule)

	return srv
}
