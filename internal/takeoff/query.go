package takeoff

import (
	"cmp"
	"slices"
	"strings"
)

// Sort keys accepted by SortMaterials and SortWorkers.
const (
	SortByName     = "name"
	SortByCost     = "cost"
	SortByQuantity = "quantity"
	SortByRate     = "rate"
	SortByDays     = "days"
)

// SortMaterials returns a sorted copy of lines. Unknown keys keep catalog
// order. Ties fall back to name so the order is stable across calls.
func SortMaterials(lines []MaterialLine, key string, desc bool) []MaterialLine {
	out := slices.Clone(lines)
	var by func(a, b MaterialLine) int
	switch key {
	case SortByName:
		by = func(a, b MaterialLine) int { return strings.Compare(a.Name, b.Name) }
	case SortByCost:
		by = func(a, b MaterialLine) int { return cmp.Compare(a.Cost, b.Cost) }
	case SortByQuantity:
		by = func(a, b MaterialLine) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortByRate:
		by = func(a, b MaterialLine) int { return cmp.Compare(a.CostPerUnit, b.CostPerUnit) }
	default:
		return out
	}
	slices.SortStableFunc(out, func(a, b MaterialLine) int {
		c := by(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.Name, b.Name)
		}
		return c
	})
	return out
}

// FilterMaterials keeps the lines whose name or category contains q,
// ignoring case. An empty query keeps everything.
func FilterMaterials(lines []MaterialLine, q string) []MaterialLine {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]MaterialLine, 0, len(lines))
	for _, l := range lines {
		if q == "" || strings.Contains(strings.ToLower(l.Name+" "+l.Category), q) {
			out = append(out, l)
		}
	}
	return out
}

// MaterialCategory is a group of lines sharing a category.
type MaterialCategory struct {
	Category string         `json:"category"`
	Lines    []MaterialLine `json:"lines"`
	Total    float64        `json:"total"`
}

// GroupMaterials groups lines by category in order of first appearance.
func GroupMaterials(lines []MaterialLine) []MaterialCategory {
	groups := make([]MaterialCategory, 0)
	index := make(map[string]int)
	for _, l := range lines {
		i, ok := index[l.Category]
		if !ok {
			i = len(groups)
			index[l.Category] = i
			groups = append(groups, MaterialCategory{Category: l.Category})
		}
		groups[i].Lines = append(groups[i].Lines, l)
		groups[i].Total += l.Cost
	}
	return groups
}

// SortWorkers returns a sorted copy of lines; "name" sorts by role.
func SortWorkers(lines []WorkerLine, key string, desc bool) []WorkerLine {
	out := slices.Clone(lines)
	var by func(a, b WorkerLine) int
	switch key {
	case SortByName:
		by = func(a, b WorkerLine) int { return strings.Compare(a.Role, b.Role) }
	case SortByCost:
		by = func(a, b WorkerLine) int { return cmp.Compare(a.Cost, b.Cost) }
	case SortByDays, SortByQuantity:
		by = func(a, b WorkerLine) int { return cmp.Compare(a.DaysNeeded, b.DaysNeeded) }
	case SortByRate:
		by = func(a, b WorkerLine) int { return cmp.Compare(a.DailyRate, b.DailyRate) }
	default:
		return out
	}
	slices.SortStableFunc(out, func(a, b WorkerLine) int {
		c := by(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.Role, b.Role)
		}
		return c
	})
	return out
}

// FilterWorkers keeps the lines whose role, category or tier contains q.
func FilterWorkers(lines []WorkerLine, q string) []WorkerLine {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]WorkerLine, 0, len(lines))
	for _, l := range lines {
		if q == "" || strings.Contains(strings.ToLower(l.Role+" "+l.Category+" "+l.Tier), q) {
			out = append(out, l)
		}
	}
	return out
}
