package store

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ISO-style layouts are unambiguous and take precedence over day-first forms.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
}

var textLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2 Jan 06",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon, 2 Jan 2006",
}

// DD/MM/YYYY, DD-MM-YY, DD.MM.YYYY with an optional trailing time part.
var numericDate = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})(?:[ T].*)?$`)

// parseDate reads a calendar date preferring day-first interpretation of
// numeric forms. ok is false for empty or unrecognized input.
func parseDate(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	if m := numericDate.FindStringSubmatch(s); m != nil {
		return dayFirst(m[1], m[2], m[3])
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	return civil.Date{}, false
}

// dayFirst builds a date from numeric parts as day/month/year and falls back
// to month/day/year when the day-first reading is not a real date.
func dayFirst(first, second, year string) (civil.Date, bool) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	y, _ := strconv.Atoi(year)
	if len(year) == 2 {
		// Same pivot as time.Parse for "06".
		if y >= 69 {
			y += 1900
		} else {
			y += 2000
		}
	}

	d := civil.Date{Year: y, Month: time.Month(b), Day: a}
	if d.IsValid() {
		return d, true
	}
	d = civil.Date{Year: y, Month: time.Month(a), Day: b}
	if d.IsValid() {
		return d, true
	}
	return civil.Date{}, false
}

// parseAmount reads a signed decimal. ok is false for empty or non-numeric input.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
