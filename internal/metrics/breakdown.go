package metrics

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Entry is one labelled amount in an ordered aggregate.
type Entry struct {
	Key    string
	Amount decimal.Decimal
}

// Breakdown is an ordered label → amount mapping. It marshals to a JSON
// object whose key order is the slice order.
type Breakdown []Entry

// Keys returns the labels in order.
func (b Breakdown) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON writes {"key": amount, ...} preserving order, amounts with two decimals.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(e.Amount.StringFixed(2))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
