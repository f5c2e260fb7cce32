package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/store"
)

const roundPlaces = 2

// SnapshotSource provides the dataset the engine reads on every call.
type SnapshotSource interface {
	Current() store.Snapshot
}

// Engine computes spend analytics from the current snapshot of its source.
// It keeps no state between calls; every method reads one snapshot.
type Engine struct {
	source SnapshotSource
}

// NewEngine creates an engine reading from source.
func NewEngine(source SnapshotSource) *Engine {
	return &Engine{source: source}
}

// SpendByCategory returns category totals, largest first.
func (e *Engine) SpendByCategory() Breakdown {
	return SpendByCategory(e.source.Current())
}

// TopMerchants returns the n merchants (descriptions) with the highest spend.
func (e *Engine) TopMerchants(n int) Breakdown {
	return TopMerchants(e.source.Current(), n)
}

// MonthlyTotals returns spend per "YYYY-MM", oldest month first.
func (e *Engine) MonthlyTotals() Breakdown {
	return MonthlyTotals(e.source.Current())
}

// FastestGrowingCategory returns the category with the largest month-over-month
// growth in the latest month, or the zero Growth when it cannot be computed.
func (e *Engine) FastestGrowingCategory() Growth {
	return FastestGrowingCategory(e.source.Current())
}

// LatestWeekTopExpenses returns the k largest line items of the latest 7 days.
func (e *Engine) LatestWeekTopExpenses(k int) Breakdown {
	return LatestWeekTopExpenses(e.source.Current(), k)
}

// DailyTotals returns the net amount of every date in the snapshot.
func (e *Engine) DailyTotals() []DailyTotal {
	return DailyTotals(e.source.Current())
}

// spendRecords returns the filtered set: rows with a valid date and a positive amount.
func spendRecords(snap store.Snapshot) []domain.Transaction {
	var out []domain.Transaction
	snap.Each(func(_ int, t domain.Transaction) {
		if t.IsSpend() {
			out = append(out, t)
		}
	})
	return out
}

// SpendByCategory sums the filtered set per category, sorted by total descending.
func SpendByCategory(snap store.Snapshot) Breakdown {
	b := sumBy(spendRecords(snap), func(t domain.Transaction) string { return t.Category })
	sortDescending(b)
	return rounded(b)
}

// TopMerchants sums the filtered set per description and keeps the n largest.
// n <= 0 yields an empty breakdown.
func TopMerchants(snap store.Snapshot, n int) Breakdown {
	if n <= 0 {
		return Breakdown{}
	}
	b := sumBy(spendRecords(snap), func(t domain.Transaction) string { return t.Description })
	sortDescending(b)
	if len(b) > n {
		b = b[:n]
	}
	return rounded(b)
}

// MonthlyTotals sums the filtered set per calendar month in chronological order.
func MonthlyTotals(snap store.Snapshot) Breakdown {
	b := sumBy(spendRecords(snap), domain.Transaction.Month)
	sort.Slice(b, func(i, j int) bool { return b[i].Key < b[j].Key })
	return rounded(b)
}

// sumBy groups records by key, skipping empty keys. Groups keep first-seen order.
func sumBy(records []domain.Transaction, key func(domain.Transaction) string) Breakdown {
	pos := make(map[string]int)
	var b Breakdown
	for _, t := range records {
		k := key(t)
		if k == "" {
			continue
		}
		i, ok := pos[k]
		if !ok {
			i = len(b)
			pos[k] = i
			b = append(b, Entry{Key: k})
		}
		b[i].Amount = b[i].Amount.Add(t.Amount)
	}
	return b
}

// sortDescending orders by amount, largest first; equal amounts order by key.
func sortDescending(b Breakdown) {
	sort.SliceStable(b, func(i, j int) bool {
		if c := b[i].Amount.Cmp(b[j].Amount); c != 0 {
			return c > 0
		}
		return b[i].Key < b[j].Key
	})
}

func rounded(b Breakdown) Breakdown {
	out := make(Breakdown, len(b))
	for i, e := range b {
		out[i] = Entry{Key: e.Key, Amount: e.Amount.Round(roundPlaces)}
	}
	return out
}

var hundred = decimal.NewFromInt(100)
