package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
	"github.com/Muhammad-div/ghanabuild/internal/estimate"
	"github.com/Muhammad-div/ghanabuild/internal/money"
	"github.com/Muhammad-div/ghanabuild/internal/takeoff"
)

// Line is one displayed cost item.
type Line struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// Lines lists the breakdown items in display order with their share of the
// total cost.
func Lines(b estimate.Breakdown) []Line {
	items := []Line{
		{Key: "land", Label: "Land", Amount: b.LandCost},
		{Key: "construction", Label: "Construction", Amount: b.BaseCost},
		{Key: "bathrooms", Label: "Bathrooms", Amount: b.BathroomCost},
		{Key: "externalWorks", Label: "External works", Amount: b.ExternalWorksCost},
		{Key: "fees", Label: "Additional fees", Amount: b.AdditionalFees},
		{Key: "markup", Label: "Markup", Amount: b.Markup},
		{Key: "contingency", Label: "Contingency", Amount: b.Contingency},
		{Key: "location", Label: "Location adjustment", Amount: b.LocationAdjustment},
		{Key: "inflation", Label: "Inflation adjustment", Amount: b.InflationAdjustment},
		{Key: "risk", Label: "Risk premium", Amount: b.RiskPremium},
	}
	for i := range items {
		if b.TotalCost != 0 {
			items[i].Percent = items[i].Amount / b.TotalCost * 100
		}
	}
	return items
}

// Query narrows and orders the materials and workers tables.
type Query struct {
	Sort   string
	Desc   bool
	Filter string
}

// Report is a breakdown together with its takeoff tables.
type Report struct {
	Breakdown      estimate.Breakdown     `json:"breakdown"`
	Lines          []Line                 `json:"lines"`
	Materials      []takeoff.MaterialLine `json:"materials"`
	MaterialsTotal float64                `json:"materialsTotal"`
	Workers        []takeoff.WorkerLine   `json:"workers"`
	WorkersTotal   float64                `json:"workersTotal"`
	Schedule       takeoff.Schedule       `json:"schedule"`
}

// Summary is a report without takeoff tables.
func Summary(b estimate.Breakdown) Report {
	return Report{Breakdown: b, Lines: Lines(b)}
}

// Build expands b against cat. Totals cover the filtered tables.
func Build(b estimate.Breakdown, cat *catalog.Catalog, q Query) Report {
	materials := takeoff.MaterialLineItems(b.AreaSqm, cat.MaterialGroups())
	materials = takeoff.SortMaterials(takeoff.FilterMaterials(materials, q.Filter), q.Sort, q.Desc)

	workers := takeoff.WorkerRequirements(b.AreaSqm, cat.WorkerTiers())
	workers = takeoff.SortWorkers(takeoff.FilterWorkers(workers, q.Filter), q.Sort, q.Desc)

	return Report{
		Breakdown:      b,
		Lines:          Lines(b),
		Materials:      materials,
		MaterialsTotal: takeoff.MaterialsTotal(materials),
		Workers:        workers,
		WorkersTotal:   takeoff.WorkersTotal(workers),
		Schedule:       takeoff.ScheduleSummary(cat.PhaseList()),
	}
}

// WriteText renders the breakdown as plain text. When r carries takeoff
// tables they are appended.
func WriteText(w io.Writer, r Report) error {
	b := r.Breakdown
	cur := b.Currency
	bw := bufio.NewWriter(w)

	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	p("Construction cost estimate\n")
	p("==========================\n\n")

	d := b.ProjectDetails
	p("Project details:\n")
	p("  Region: %s", b.RegionData.Name)
	if b.RegionData.Fallback {
		p(" (requested %q not found)", d.Region)
	}
	p("\n")
	p("  Project type: %s\n", orDash(d.ProjectType))
	p("  Floor area: %.2f sqm", d.AreaSqm)
	if d.AreaUnit == estimate.SquareFeet {
		p(" (%.0f sq ft)", d.TotalFloorArea)
	}
	p("\n")
	p("  Bathrooms: %d\n", d.NumberOfBathrooms)
	p("  Floors: %d\n", d.NumberOfFloors)
	p("  Finish quality: %s\n", orDash(d.FinishQuality))
	p("  External works: %s\n", yesNo(d.IncludeExternalWorks))
	p("\n")

	p("Rates:\n")
	p("  Construction: %s/sqm%s\n", money.Format(b.RegionData.ConstructionCostPerSqm, cur), customMark(b.RegionData.CustomMaterialCost))
	p("  Land: %s/plot%s\n", money.Format(b.RegionData.LandCostPerPlot, cur), customMark(b.RegionData.CustomLandCost))
	p("  Labour: %s/day%s\n", money.Format(b.RegionData.LaborCostPerDay, cur), customMark(b.RegionData.CustomLaborCost))
	p("\n")

	p("Breakdown:\n")
	for _, l := range r.Lines {
		p("  %-22s %20s  %6s\n", l.Label, money.Format(l.Amount, cur), money.Percent(l.Percent))
	}
	p("\n")
	p("Subtotal: %s\n", money.Format(b.Subtotal, cur))
	p("Total: %s\n", money.Format(b.TotalCost, cur))

	if len(r.Materials) > 0 {
		p("\nMaterials:\n")
		for _, m := range r.Materials {
			p("  %-12s %-28s %10.2f %-8s %20s\n", m.Category, m.Name, m.Quantity, m.Unit, money.Format(m.Cost, cur))
		}
		p("  Materials total: %s\n", money.Format(r.MaterialsTotal, cur))
	}
	if len(r.Workers) > 0 {
		p("\nWorkforce:\n")
		for _, wl := range r.Workers {
			p("  %-12s %-16s %5d days %20s\n", wl.Category, wl.Role, wl.DaysNeeded, money.Format(wl.Cost, cur))
		}
		p("  Workforce total: %s\n", money.Format(r.WorkersTotal, cur))
	}
	if len(r.Schedule.Phases) > 0 {
		p("\nSchedule (%d days):\n", r.Schedule.TotalDurationDays)
		for _, ph := range r.Schedule.Phases {
			p("  %-18s day %3d - %3d\n", ph.Name, ph.StartDay, ph.EndDay)
		}
	}

	return bw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func customMark(custom bool) string {
	if custom {
		return " (custom rate applied)"
	}
	return ""
}
