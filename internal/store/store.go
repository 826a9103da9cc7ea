// Package store reads a rate catalog back out of the SQLite catalog tables.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

// ErrEmptyCatalog is returned when the database has not been seeded.
var ErrEmptyCatalog = errors.New("catalog database is empty")

// LoadCatalog builds a validated Catalog from db. Regions, materials, workers
// and phases come back in their seeded order.
func LoadCatalog(ctx context.Context, db *sql.DB) (*catalog.Catalog, error) {
	var src catalog.Catalog

	err := db.QueryRowContext(ctx, `
		SELECT version, currency, last_updated, default_region,
			markup_rate, contingency_rate, inflation_rate, risk_premium_rate
		FROM catalog_meta
		WHERE id = 1
	`).Scan(
		&src.Version, &src.Currency, &src.LastUpdated, &src.DefaultRegion,
		&src.Defaults.MarkupRate, &src.Defaults.ContingencyRate,
		&src.Defaults.InflationRate, &src.Defaults.RiskPremiumRate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog meta: %w", err)
	}

	if src.Regions, err = loadRegions(ctx, db); err != nil {
		return nil, err
	}
	if src.Materials, err = loadMaterials(ctx, db); err != nil {
		return nil, err
	}
	if src.Workers, err = loadWorkers(ctx, db); err != nil {
		return nil, err
	}
	if src.Phases, err = loadPhases(ctx, db); err != nil {
		return nil, err
	}

	cat, err := catalog.New(src)
	if err != nil {
		return nil, fmt.Errorf("build catalog from database: %w", err)
	}
	return cat, nil
}

func loadRegions(ctx context.Context, db *sql.DB) ([]catalog.Region, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, display_name, land_cost_per_plot, construction_cost_per_sqm,
			labor_cost_per_day, bathroom_cost, floor_multiplier, external_works_rate, location_factor
		FROM regions
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var regions []catalog.Region
	index := make(map[string]int)
	for rows.Next() {
		var r catalog.Region
		if err := rows.Scan(&r.Name, &r.DisplayName, &r.LandCostPerPlot, &r.ConstructionCostPerSqm,
			&r.LaborCostPerDay, &r.BathroomCost, &r.FloorMultiplier, &r.ExternalWorksRate, &r.LocationFactor); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		index[r.Name] = len(regions)
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	rows.Close()

	mrows, err := db.QueryContext(ctx, `SELECT region_name, kind, name, value FROM region_multipliers ORDER BY region_name, kind, name`)
	if err != nil {
		return nil, fmt.Errorf("query region multipliers: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var region, kind, name string
		var value float64
		if err := mrows.Scan(&region, &kind, &name, &value); err != nil {
			return nil, fmt.Errorf("scan region multiplier: %w", err)
		}
		i, ok := index[region]
		if !ok {
			continue
		}
		r := &regions[i]
		switch kind {
		case "quality":
			r.QualityMultipliers = put(r.QualityMultipliers, name, value)
		case "project_type":
			r.ProjectTypeMultipliers = put(r.ProjectTypeMultipliers, name, value)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region multipliers: %w", err)
	}

	frows, err := db.QueryContext(ctx, `SELECT region_name, name, amount FROM region_fees ORDER BY region_name, name`)
	if err != nil {
		return nil, fmt.Errorf("query region fees: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var region, name string
		var amount float64
		if err := frows.Scan(&region, &name, &amount); err != nil {
			return nil, fmt.Errorf("scan region fee: %w", err)
		}
		if i, ok := index[region]; ok {
			regions[i].AdditionalFees = put(regions[i].AdditionalFees, name, amount)
		}
	}
	if err := frows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region fees: %w", err)
	}

	return regions, nil
}

func put(m map[string]float64, k string, v float64) map[string]float64 {
	if m == nil {
		m = make(map[string]float64)
	}
	m[k] = v
	return m
}

func loadMaterials(ctx context.Context, db *sql.DB) ([]catalog.MaterialGroup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, name, unit, cost_per_unit, quantity_per_sqm
		FROM materials
		ORDER BY category_order, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var groups []catalog.MaterialGroup
	for rows.Next() {
		var category string
		var m catalog.Material
		if err := rows.Scan(&category, &m.Name, &m.Unit, &m.CostPerUnit, &m.QuantityPerSqm); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		if n := len(groups); n == 0 || groups[n-1].Category != category {
			groups = append(groups, catalog.MaterialGroup{Category: category})
		}
		g := &groups[len(groups)-1]
		g.Items = append(g.Items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return groups, nil
}

func loadWorkers(ctx context.Context, db *sql.DB) ([]catalog.WorkerTier, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT tier, role, daily_rate, productivity_sqm_per_day, category
		FROM workers
		ORDER BY tier_order, sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	var tiers []catalog.WorkerTier
	for rows.Next() {
		var tier string
		var w catalog.Worker
		if err := rows.Scan(&tier, &w.Role, &w.DailyRate, &w.ProductivitySqmPerDay, &w.Category); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		if n := len(tiers); n == 0 || tiers[n-1].Tier != tier {
			tiers = append(tiers, catalog.WorkerTier{Tier: tier})
		}
		t := &tiers[len(tiers)-1]
		t.Workers = append(t.Workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workers: %w", err)
	}
	return tiers, nil
}

func loadPhases(ctx context.Context, db *sql.DB) ([]catalog.Phase, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, duration_days, percentage_of_total
		FROM phases
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query phases: %w", err)
	}
	defer rows.Close()

	var phases []catalog.Phase
	index := make(map[string]int)
	for rows.Next() {
		var p catalog.Phase
		if err := rows.Scan(&p.Name, &p.DurationDays, &p.PercentageOfTotal); err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		index[p.Name] = len(phases)
		phases = append(phases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phases: %w", err)
	}
	rows.Close()

	irows, err := db.QueryContext(ctx, `SELECT phase_name, kind, value FROM phase_items ORDER BY phase_name, kind, position`)
	if err != nil {
		return nil, fmt.Errorf("query phase items: %w", err)
	}
	defer irows.Close()
	for irows.Next() {
		var phase, kind, value string
		if err := irows.Scan(&phase, &kind, &value); err != nil {
			return nil, fmt.Errorf("scan phase item: %w", err)
		}
		i, ok := index[phase]
		if !ok {
			continue
		}
		p := &phases[i]
		switch kind {
		case "activity":
			p.Activities = append(p.Activities, value)
		case "worker":
			p.RequiredWorkers = append(p.RequiredWorkers, value)
		case "material":
			p.RequiredMaterials = append(p.RequiredMaterials, value)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phase items: %w", err)
	}
	return phases, nil
}
