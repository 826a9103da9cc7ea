// Package takeoff projects an estimate's floor area onto the material,
// workforce and phase catalogs. Results are for reporting only and never feed
// back into the cost breakdown.
package takeoff

import (
	"math"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

// MaterialLine is one material with its quantity and cost for an area.
type MaterialLine struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"costPerUnit"`
	Quantity    float64 `json:"quantity"`
	Cost        float64 `json:"cost"`
}

// WorkerLine is one role with the days and cost needed for an area.
type WorkerLine struct {
	Tier         string  `json:"tier"`
	Role         string  `json:"role"`
	DailyRate    float64 `json:"dailyRate"`
	Productivity float64 `json:"productivity"`
	DaysNeeded   int     `json:"daysNeeded"`
	Cost         float64 `json:"cost"`
	Category     string  `json:"category"`
}

// ScheduledPhase is a catalog phase placed on the project timeline.
type ScheduledPhase struct {
	catalog.Phase
	StartDay int `json:"startDay"`
	EndDay   int `json:"endDay"`
}

// Schedule is the project timeline.
type Schedule struct {
	TotalDurationDays int              `json:"totalDurationDays"`
	Phases            []ScheduledPhase `json:"phases"`
}

// MaterialLineItems computes quantity = quantityPerSqm * area and
// cost = quantity * costPerUnit for every material, in catalog order.
func MaterialLineItems(areaSqm float64, groups []catalog.MaterialGroup) []MaterialLine {
	lines := make([]MaterialLine, 0)
	for _, g := range groups {
		for _, m := range g.Items {
			qty := m.QuantityPerSqm * areaSqm
			lines = append(lines, MaterialLine{
				Category:    g.Category,
				Name:        m.Name,
				Unit:        m.Unit,
				CostPerUnit: m.CostPerUnit,
				Quantity:    qty,
				Cost:        qty * m.CostPerUnit,
			})
		}
	}
	return lines
}

// WorkerRequirements computes the whole days each role needs to cover the
// area. A partial day is billed as a full day.
func WorkerRequirements(areaSqm float64, tiers []catalog.WorkerTier) []WorkerLine {
	lines := make([]WorkerLine, 0)
	for _, t := range tiers {
		for _, w := range t.Workers {
			days := 0
			if w.ProductivitySqmPerDay > 0 && areaSqm > 0 {
				days = int(math.Ceil(areaSqm / w.ProductivitySqmPerDay))
			}
			lines = append(lines, WorkerLine{
				Tier:         t.Tier,
				Role:         w.Role,
				DailyRate:    w.DailyRate,
				Productivity: w.ProductivitySqmPerDay,
				DaysNeeded:   days,
				Cost:         float64(days) * w.DailyRate,
				Category:     w.Category,
			})
		}
	}
	return lines
}

// ScheduleSummary lays the phases end to end. The total duration is the sum
// of the phase durations.
func ScheduleSummary(phases []catalog.Phase) Schedule {
	s := Schedule{Phases: make([]ScheduledPhase, 0, len(phases))}
	for _, p := range phases {
		start := s.TotalDurationDays
		s.TotalDurationDays += p.DurationDays
		s.Phases = append(s.Phases, ScheduledPhase{
			Phase:    p,
			StartDay: start,
			EndDay:   s.TotalDurationDays,
		})
	}
	return s
}

// MaterialsTotal sums the material costs.
func MaterialsTotal(lines []MaterialLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Cost
	}
	return total
}

// WorkersTotal sums the labour costs.
func WorkersTotal(lines []WorkerLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Cost
	}
	return total
}
