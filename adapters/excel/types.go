package excel

import "strings"

// RawRowData represents a row of raw cell text keyed by header
type RawRowData map[string]string

// ExcelData represents the complete sheet or CSV file as text
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column returns the raw cells of one header in row order
func (d *ExcelData) Column(header string) []string {
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[header]
	}
	return out
}

// isMissingCell reports whether a trimmed cell counts as no value
func isMissingCell(cell string, markers []string) bool {
	if cell == "" {
		return true
	}
	for _, m := range markers {
		if strings.EqualFold(cell, m) {
			return true
		}
	}
	return false
}
