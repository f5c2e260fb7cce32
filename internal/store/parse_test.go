package store

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  civil.Date
		ok    bool
	}{
		{"2024-01-05", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"2024-01-05 13:45:00", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"2024-01-05T13:45:00Z", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"2024/01/05", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"05/01/2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"5/1/2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"05-01-2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"05.01.2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"05/01/24", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"01/13/2024", civil.Date{Year: 2024, Month: 1, Day: 13}, true},
		{"13/01/2024 09:30", civil.Date{Year: 2024, Month: 1, Day: 13}, true},
		{"5 Jan 2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"05 january 2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"Jan 5, 2024", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"5-Jan-24", civil.Date{Year: 2024, Month: 1, Day: 5}, true},
		{"  2024-02-29  ", civil.Date{Year: 2024, Month: 2, Day: 29}, true},
		{"2023-02-29", civil.Date{}, false},
		{"32/13/2024", civil.Date{}, false},
		{"", civil.Date{}, false},
		{"yesterday", civil.Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"4.50", "4.5", true},
		{" 1200 ", "1200", true},
		{"-12.34", "-12.34", true},
		{"1e3", "1000", true},
		{"", "", false},
		{"abc", "", false},
		{"1,200.00", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}
