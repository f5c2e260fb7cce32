package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/finance-assistant/internal/store"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format. Please upload a CSV or Excel file.")

const utf8BOM = "\ufeff"

// Decode reads an uploaded file into a raw table, choosing the decoder by the
// file extension. The first row is the header.
func Decode(filename string, r io.Reader) (store.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(r)
	case ".xlsx":
		return decodeXLSX(r)
	default:
		return store.RawTable{}, ErrUnsupportedFormat
	}
}

func decodeCSV(r io.Reader) (store.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return store.RawTable{}, fmt.Errorf("decodeCSV: read records: %w", err)
	}
	return fromRows(records), nil
}

func decodeXLSX(r io.Reader) (store.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return store.RawTable{}, fmt.Errorf("decodeXLSX: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return store.RawTable{}, nil
	}
	sheet := sheets[0]

	// Raw values keep numbers unformatted; date cells come back as serials.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return store.RawTable{}, fmt.Errorf("decodeXLSX: read sheet %q: %w", sheet, err)
	}
	if err := convertDateCells(f, sheet, rows); err != nil {
		return store.RawTable{}, fmt.Errorf("decodeXLSX: %w", err)
	}
	return fromRows(rows), nil
}

// convertDateCells rewrites numeric cells whose number format is a date as
// ISO "2006-01-02" strings.
func convertDateCells(f *excelize.File, sheet string, rows [][]string) error {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	styles := make(map[int]bool)
	for i, row := range rows {
		for j, value := range row {
			serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return fmt.Errorf("style of %s: %w", cell, err)
			}
			isDate, seen := styles[styleID]
			if !seen {
				style, err := f.GetStyle(styleID)
				if err != nil {
					return fmt.Errorf("style %d: %w", styleID, err)
				}
				isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
				styles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[j] = t.Format("2006-01-02")
		}
	}
	return nil
}

// isDateFormat reports whether a number format renders dates or times.
// Built-in ids follow ECMA-376 18.8.30 plus the CJK and Thai date ids.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil {
		return customDateFormat(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58,
		numFmt >= 71 && numFmt <= 81:
		return true
	}
	return false
}

// customDateFormat looks for date tokens outside quoted text, escapes and
// bracketed sections such as colors and locales.
func customDateFormat(format string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\', c == '_', c == '*':
			i++
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h':
				return true
			}
		}
	}
	return false
}

// fromRows splits the header from the data rows, skipping blank rows.
func fromRows(rows [][]string) store.RawTable {
	var table store.RawTable
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if table.Columns == nil {
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
			table.Columns = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
