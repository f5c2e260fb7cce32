package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestWeekTopExpenses(t *testing.T) {
	snap := ingest(t,
		[]string{"2024-03-01", "Too Old", "999", "X"},
		[]string{"2024-03-03", "Edge", "50", "X"},
		[]string{"2024-03-05", "Cafe", "4.5", "Food"},
		[]string{"2024-03-08", "Grocer", "80.456", "Food"},
		[]string{"2024-03-09", "Tie First", "50", "X"},
		[]string{"2024-03-09", "Refund", "-500", "X"},
	).Current()

	got := LatestWeekTopExpenses(snap, 3)
	assertBreakdown(t, []Entry{
		{"Grocer (2024-03-08)", dec("80.46")},
		{"Edge (2024-03-03)", dec("50")},
		{"Tie First (2024-03-09)", dec("50")},
	}, got)

	all := LatestWeekTopExpenses(snap, 10)
	assert.Len(t, all, 4)
	assert.NotContains(t, all.Keys(), "Too Old (2024-03-01)")

	assert.Empty(t, LatestWeekTopExpenses(snap, 0))
	assert.Empty(t, LatestWeekTopExpenses(snap, -2))
}

func TestLatestWeekTopExpenses_RepeatedKey(t *testing.T) {
	snap := ingest(t,
		[]string{"2024-03-09", "Cafe", "7", "Food"},
		[]string{"2024-03-09", "Cafe", "5", "Food"},
		[]string{"2024-03-08", "Grocer", "6", "Food"},
	).Current()

	got := LatestWeekTopExpenses(snap, 3)
	assertBreakdown(t, []Entry{
		{"Cafe (2024-03-09)", dec("5")},
		{"Grocer (2024-03-08)", dec("6")},
	}, got)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"Cafe (2024-03-09)":5.00,"Grocer (2024-03-08)":6.00}`, string(out))
}
