package store

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/dvloznov/finance-assistant/internal/domain"
	"github.com/dvloznov/finance-assistant/internal/logger"
)

// Store owns the single current transaction snapshot.
// Readers get an immutable Snapshot; Ingest builds a new one and publishes it
// with one atomic swap, so a concurrent Current never observes a partial upload.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// New creates a store holding the empty snapshot.
func New() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{})
	return s
}

// Ingest normalizes table and replaces the current snapshot with its valid rows.
// It returns the number of rows kept. When required columns are missing it
// returns a *MissingColumnsError and the current snapshot is left untouched.
func (s *Store) Ingest(ctx context.Context, table RawTable) (int, error) {
	log := logger.FromContext(ctx)

	idx := table.columnIndex()
	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, &MissingColumnsError{Missing: missing}
	}

	dateCol, descCol := idx[domain.ColumnDate], idx[domain.ColumnDescription]
	amountCol, catCol := idx[domain.ColumnAmount], idx[domain.ColumnCategory]

	records := make([]domain.Transaction, 0, len(table.Rows))
	for _, row := range table.Rows {
		date, ok := parseDate(cell(row, dateCol))
		if !ok {
			continue
		}
		amount, ok := parseAmount(cell(row, amountCol))
		if !ok {
			continue
		}
		records = append(records, domain.Transaction{
			Date:        date,
			Description: cell(row, descCol),
			Amount:      amount,
			Category:    cell(row, catCol),
		})
	}

	snap := NewSnapshot(records)
	s.current.Store(&snap)

	log.Debug().
		Int("rows_in", len(table.Rows)).
		Int("rows_kept", len(records)).
		Int("rows_dropped", len(table.Rows)-len(records)).
		Msg("Snapshot replaced")

	return len(records), nil
}

// Current returns the live snapshot, or the empty snapshot before any ingest.
func (s *Store) Current() Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{}
}

// Reset clears the store back to the empty snapshot.
func (s *Store) Reset() {
	s.current.Store(&Snapshot{})
}
