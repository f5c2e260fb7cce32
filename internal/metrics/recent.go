package metrics

import (
	"encoding/json"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/store"
)

// weekSpan is the number of days before the latest date still inside the window.
const weekSpan = 6

// LatestWeekTopExpenses lists the k largest single transactions dated within
// the 7 days ending on the latest date of the filtered set. Keys read
// "<description> (<YYYY-MM-DD>)". Equal amounts keep upload order.
// k <= 0 yields an empty breakdown.
func LatestWeekTopExpenses(snap store.Snapshot, k int) Breakdown {
	if k <= 0 {
		return Breakdown{}
	}
	records := spendRecords(snap)
	if len(records) == 0 {
		return Breakdown{}
	}

	latest := records[0].Date
	for _, t := range records[1:] {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	start := latest.AddDays(-weekSpan)

	var week []domain.Transaction
	for _, t := range records {
		if !t.Date.Before(start) && !t.Date.After(latest) {
			week = append(week, t)
		}
	}
	if len(week) == 0 {
		return Breakdown{}
	}

	sort.SliceStable(week, func(i, j int) bool {
		return week[i].Amount.GreaterThan(week[j].Amount)
	})
	if len(week) > k {
		week = week[:k]
	}

	out := make(Breakdown, 0, len(week))
	pos := make(map[string]int, len(week))
	for _, t := range week {
		key := fmt.Sprintf("%s (%s)", t.Description, t.Date)
		amount := t.Amount.Round(roundPlaces)
		// A repeated key keeps its first position and takes the later amount.
		if i, ok := pos[key]; ok {
			out[i].Amount = amount
			continue
		}
		pos[key] = len(out)
		out = append(out, Entry{Key: key, Amount: amount})
	}
	return out
}

// DailyTotal is the net amount booked on one calendar date.
type DailyTotal struct {
	Date   civil.Date
	Amount decimal.Decimal
}

func (d DailyTotal) MarshalJSON() ([]byte, error) {
	date, err := json.Marshal(d.Date.String())
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(`{"date":%s,"amount":%s}`, date, d.Amount.StringFixed(roundPlaces))), nil
}

// DailyTotals sums every snapshot row per date, refunds included, oldest first.
func DailyTotals(snap store.Snapshot) []DailyTotal {
	pos := make(map[civil.Date]int)
	out := []DailyTotal{}
	snap.Each(func(_ int, t domain.Transaction) {
		if !t.Date.IsValid() {
			return
		}
		i, ok := pos[t.Date]
		if !ok {
			i = len(out)
			pos[t.Date] = i
			out = append(out, DailyTotal{Date: t.Date})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for i := range out {
		out[i].Amount = out[i].Amount.Round(roundPlaces)
	}
	return out
}
