// Package seed imports a rate catalog into the SQLite catalog tables.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Muhammad-div/ghanabuild/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
	Deletes int
}

// Changed reports whether the seed touched any row.
func (s Stats) Changed() bool {
	return s.Inserts+s.Updates+s.Deletes > 0
}

// table describes one synced table: its key columns and value columns.
type table struct {
	name string
	keys []string
	cols []string
}

type row struct {
	key  []any
	vals []any
}

var (
	metaTable = table{"catalog_meta", []string{"id"},
		[]string{"version", "currency", "last_updated", "default_region", "markup_rate", "contingency_rate", "inflation_rate", "risk_premium_rate"}}
	regionsTable = table{"regions", []string{"name"},
		[]string{"sort_order", "display_name", "land_cost_per_plot", "construction_cost_per_sqm", "labor_cost_per_day", "bathroom_cost", "floor_multiplier", "external_works_rate", "location_factor"}}
	multipliersTable = table{"region_multipliers", []string{"region_name", "kind", "name"}, []string{"value"}}
	feesTable        = table{"region_fees", []string{"region_name", "name"}, []string{"amount"}}
	materialsTable   = table{"materials", []string{"category", "name"},
		[]string{"category_order", "sort_order", "unit", "cost_per_unit", "quantity_per_sqm"}}
	workersTable = table{"workers", []string{"tier", "role"},
		[]string{"tier_order", "sort_order", "daily_rate", "productivity_sqm_per_day", "category"}}
	phasesTable     = table{"phases", []string{"name"}, []string{"sort_order", "duration_days", "percentage_of_total"}}
	phaseItemsTable = table{"phase_items", []string{"phase_name", "kind", "position"}, []string{"value"}}
)

// Run makes the catalog tables mirror cat in one transaction. Rows are
// inserted, updated or deleted only where they differ, so running it again
// with the same catalog changes nothing.
func Run(ctx context.Context, db *sql.DB, cat *catalog.Catalog) (Stats, error) {
	if cat == nil {
		return Stats{}, fmt.Errorf("seed catalog: %w", catalog.ErrInvalidCatalog)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	// Parents before children so inserts satisfy foreign keys and stale
	// parents cascade before their children are compared.
	steps := []struct {
		t    table
		rows []row
	}{
		{metaTable, metaRows(cat)},
		{regionsTable, regionRows(cat)},
		{multipliersTable, multiplierRows(cat)},
		{feesTable, feeRows(cat)},
		{materialsTable, materialRows(cat)},
		{workersTable, workerRows(cat)},
		{phasesTable, phaseRows(cat)},
		{phaseItemsTable, phaseItemRows(cat)},
	}
	for _, s := range steps {
		if err := syncTable(ctx, tx, s.t, s.rows, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func syncTable(ctx context.Context, tx *sql.Tx, t table, rows []row, stats *Stats) error {
	existing, err := existingKeys(ctx, tx, t)
	if err != nil {
		return err
	}

	for _, r := range rows {
		k := keyString(r.key)
		if _, ok := existing[k]; !ok {
			if err := insertRow(ctx, tx, t, r); err != nil {
				return err
			}
			stats.Inserts++
			continue
		}
		delete(existing, k)

		updated, err := updateRow(ctx, tx, t, r)
		if err != nil {
			return err
		}
		if updated {
			stats.Updates++
		}
	}

	for _, k := range slices.Sorted(maps.Keys(existing)) {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE %s`, t.name, matchKeys(t.keys)), existing[k]...)
		if err != nil {
			return fmt.Errorf("delete stale %s row: %w", t.name, err)
		}
		// A cascade from a parent table may already have removed it.
		if n, _ := res.RowsAffected(); n > 0 {
			stats.Deletes++
		}
	}
	return nil
}

func existingKeys(ctx context.Context, tx *sql.Tx, t table) (map[string][]any, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(t.keys, ", "), t.name))
	if err != nil {
		return nil, fmt.Errorf("list %s keys: %w", t.name, err)
	}
	defer rows.Close()

	out := make(map[string][]any)
	for rows.Next() {
		raw := make([]string, len(t.keys))
		dest := make([]any, len(raw))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s key: %w", t.name, err)
		}
		key := make([]any, len(raw))
		for i, v := range raw {
			key[i] = v
		}
		out[keyString(key)] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s keys: %w", t.name, err)
	}
	return out, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, t table, r row) error {
	cols := append(slices.Clone(t.keys), t.cols...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, t.name, strings.Join(cols, ", "), placeholders)
	if _, err := tx.ExecContext(ctx, q, append(slices.Clone(r.key), r.vals...)...); err != nil {
		return fmt.Errorf("insert %s row %s: %w", t.name, keyString(r.key), err)
	}
	return nil
}

// updateRow rewrites the value columns only when at least one differs.
func updateRow(ctx context.Context, tx *sql.Tx, t table, r row) (bool, error) {
	sets := make([]string, len(t.cols))
	same := make([]string, len(t.cols))
	for i, c := range t.cols {
		sets[i] = c + " = ?"
		same[i] = c + " IS ?"
	}
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE %s AND NOT (%s)`,
		t.name, strings.Join(sets, ", "), matchKeys(t.keys), strings.Join(same, " AND "))

	args := make([]any, 0, 2*len(r.vals)+len(r.key))
	args = append(args, r.vals...)
	args = append(args, r.key...)
	args = append(args, r.vals...)

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("update %s row %s: %w", t.name, keyString(r.key), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update %s row %s: %w", t.name, keyString(r.key), err)
	}
	return n > 0, nil
}

func matchKeys(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " = ?"
	}
	return strings.Join(parts, " AND ")
}

func keyString(key []any) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, "\x1f")
}

func metaRows(cat *catalog.Catalog) []row {
	d := cat.Defaults
	return []row{{
		key:  []any{1},
		vals: []any{cat.Version, cat.Currency, cat.LastUpdated, cat.DefaultRegion, d.MarkupRate, d.ContingencyRate, d.InflationRate, d.RiskPremiumRate},
	}}
}

func regionRows(cat *catalog.Catalog) []row {
	var out []row
	for i, r := range cat.RegionList() {
		out = append(out, row{
			key: []any{r.Name},
			vals: []any{i, r.DisplayName, r.LandCostPerPlot, r.ConstructionCostPerSqm, r.LaborCostPerDay,
				r.BathroomCost, r.FloorMultiplier, r.ExternalWorksRate, r.LocationFactor},
		})
	}
	return out
}

func multiplierRows(cat *catalog.Catalog) []row {
	var out []row
	for _, r := range cat.RegionList() {
		for _, kind := range []struct {
			name string
			m    map[string]float64
		}{{"quality", r.QualityMultipliers}, {"project_type", r.ProjectTypeMultipliers}} {
			for _, k := range slices.Sorted(maps.Keys(kind.m)) {
				out = append(out, row{key: []any{r.Name, kind.name, k}, vals: []any{kind.m[k]}})
			}
		}
	}
	return out
}

func feeRows(cat *catalog.Catalog) []row {
	var out []row
	for _, r := range cat.RegionList() {
		for _, k := range slices.Sorted(maps.Keys(r.AdditionalFees)) {
			out = append(out, row{key: []any{r.Name, k}, vals: []any{r.AdditionalFees[k]}})
		}
	}
	return out
}

func materialRows(cat *catalog.Catalog) []row {
	var out []row
	for gi, g := range cat.MaterialGroups() {
		for i, m := range g.Items {
			out = append(out, row{
				key:  []any{g.Category, m.Name},
				vals: []any{gi, i, m.Unit, m.CostPerUnit, m.QuantityPerSqm},
			})
		}
	}
	return out
}

func workerRows(cat *catalog.Catalog) []row {
	var out []row
	for ti, t := range cat.WorkerTiers() {
		for i, w := range t.Workers {
			out = append(out, row{
				key:  []any{t.Tier, w.Role},
				vals: []any{ti, i, w.DailyRate, w.ProductivitySqmPerDay, w.Category},
			})
		}
	}
	return out
}

func phaseRows(cat *catalog.Catalog) []row {
	var out []row
	for i, p := range cat.PhaseList() {
		out = append(out, row{key: []any{p.Name}, vals: []any{i, p.DurationDays, p.PercentageOfTotal}})
	}
	return out
}

func phaseItemRows(cat *catalog.Catalog) []row {
	var out []row
	for _, p := range cat.PhaseList() {
		for _, kind := range []struct {
			name  string
			items []string
		}{{"activity", p.Activities}, {"worker", p.RequiredWorkers}, {"material", p.RequiredMaterials}} {
			for i, v := range kind.items {
				out = append(out, row{key: []any{p.Name, kind.name, i}, vals: []any{v}})
			}
		}
	}
	return out
}
