package metrics

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-assistant/internal/store"
)

// Growth is the month-over-month growth winner. The zero value means
// "not enough data" and marshals as {}.
type Growth struct {
	Month     string
	Category  string
	GrowthPct decimal.Decimal
}

// IsZero reports whether no growth could be computed.
func (g Growth) IsZero() bool {
	return g.Month == ""
}

func (g Growth) MarshalJSON() ([]byte, error) {
	if g.IsZero() {
		return []byte("{}"), nil
	}
	month, err := json.Marshal(g.Month)
	if err != nil {
		return nil, err
	}
	category, err := json.Marshal(g.Category)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(`{"month":%s,"category":%s,"growth_pct":%s}`,
		month, category, g.GrowthPct.StringFixed(roundPlaces))), nil
}

// FastestGrowingCategory builds a category × month table of the filtered set
// (unobserved cells are zero) and picks the category whose total grew the most
// from the second-to-last to the last month. Growth from a zero month counts as 0.
// Ties go to the lexically first category.
func FastestGrowingCategory(snap store.Snapshot) Growth {
	cells := make(map[string]map[string]decimal.Decimal)
	monthSet := make(map[string]struct{})
	for _, t := range spendRecords(snap) {
		if t.Category == "" {
			continue
		}
		month := t.Month()
		monthSet[month] = struct{}{}
		row, ok := cells[t.Category]
		if !ok {
			row = make(map[string]decimal.Decimal)
			cells[t.Category] = row
		}
		row[month] = row[month].Add(t.Amount)
	}
	if len(monthSet) < 2 {
		return Growth{}
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)
	last, prev := months[len(months)-1], months[len(months)-2]

	categories := make([]string, 0, len(cells))
	for c := range cells {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var best Growth
	var bestRate decimal.Decimal
	for _, c := range categories {
		rate := changeRate(cells[c][prev], cells[c][last])
		if best.IsZero() || rate.GreaterThan(bestRate) {
			best = Growth{Month: last, Category: c}
			bestRate = rate
		}
	}
	best.GrowthPct = bestRate.Mul(hundred).Round(roundPlaces)
	return best
}

// changeRate returns (curr-prev)/prev, or 0 when prev is zero.
func changeRate(prev, curr decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return curr.Sub(prev).Div(prev)
}

