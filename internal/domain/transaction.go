package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Column names every uploaded table must carry (after trimming and lower-casing).
const (
	ColumnDate        = "date"
	ColumnDescription = "description"
	ColumnAmount      = "amount"
	ColumnCategory    = "category"
)

// RequiredColumns lists the columns in the order the snapshot exposes them.
var RequiredColumns = []string{ColumnDate, ColumnDescription, ColumnAmount, ColumnCategory}

// Transaction is one normalized row of the uploaded dataset.
// Description doubles as the merchant identity. An empty Category means the
// row had no category and never forms a category group.
type Transaction struct {
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // positive = spend, negative = refund
	Category    string          `json:"category,omitempty"`
}

// IsSpend reports whether the transaction counts towards spend analytics.
func (t Transaction) IsSpend() bool {
	return t.Date.IsValid() && t.Amount.IsPositive()
}

// Month returns the "YYYY-MM" bucket label of the transaction date.
func (t Transaction) Month() string {
	return MonthLabel(t.Date)
}

// MonthLabel formats a date as "YYYY-MM". Lexical order of labels is chronological.
func MonthLabel(d civil.Date) string {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}.String()[:7]
}
