package store

import (
	"strings"

	"github.com/dvloznov/finance-assistant/internal/domain"
)

// RawTable is an uploaded table before normalization: a header row and
// string cells. Rows may be shorter or longer than Columns.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// columnIndex maps normalized column names to their first position in the header.
func (t RawTable) columnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		name := normalizeColumn(c)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// cell returns the trimmed value at col, or "" when the row is short.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// normalizeColumn trims and lower-cases a header name for comparison.
func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Snapshot is the immutable dataset published by the Store.
type Snapshot struct {
	records []domain.Transaction
}

// Records returns a copy of the snapshot rows in ingestion order.
func (s Snapshot) Records() []domain.Transaction {
	out := make([]domain.Transaction, len(s.records))
	copy(out, s.records)
	return out
}

// Each calls fn for every row in order without copying the slice.
func (s Snapshot) Each(fn func(i int, t domain.Transaction)) {
	for i, t := range s.records {
		fn(i, t)
	}
}

// Len returns the number of rows.
func (s Snapshot) Len() int {
	return len(s.records)
}

// Columns returns the fixed column set of every snapshot, including the empty one.
func (s Snapshot) Columns() []string {
	return append([]string(nil), domain.RequiredColumns...)
}

// NewSnapshot builds a snapshot owning records. Callers must not modify the
// slice afterwards.
func NewSnapshot(records []domain.Transaction) Snapshot {
	return Snapshot{records: records}
}
