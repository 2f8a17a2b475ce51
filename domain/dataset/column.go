package dataset

import (
	"math"
	"strconv"
)

// ColumnType is the declared storage type of a column
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnText    ColumnType = "text"
)

// Column is a named, read-only vector of values. Numeric columns use NaN for
// missing values, text columns use the empty string.
type Column struct {
	Name    string
	Type    ColumnType
	Numeric []float64
	Text    []string
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	if c.Type == ColumnNumeric {
		return len(c.Numeric)
	}
	return len(c.Text)
}

// IsNumeric reports whether the column is declared numeric
func (c *Column) IsNumeric() bool {
	return c.Type == ColumnNumeric
}

// IsMissing reports whether row i holds no value
func (c *Column) IsMissing(i int) bool {
	if c.Type == ColumnNumeric {
		return math.IsNaN(c.Numeric[i])
	}
	return c.Text[i] == ""
}

// Key returns the grouping key of row i. Missing values map to "".
func (c *Column) Key(i int) string {
	if c.Type == ColumnNumeric {
		v := c.Numeric[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return c.Text[i]
}

// Keys returns the grouping key of every row
func (c *Column) Keys() []string {
	keys := make([]string, c.Len())
	for i := range keys {
		keys[i] = c.Key(i)
	}
	return keys
}

// Distinct returns the distinct non-missing keys in first-seen order
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{})
	distinct := make([]string, 0)
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		key := c.Key(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	return distinct
}

// ValidCount returns the number of non-missing rows
func (c *Column) ValidCount() int {
	count := 0
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			count++
		}
	}
	return count
}

// subset copies the given rows into a new column
func (c *Column) subset(rows []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	if c.Type == ColumnNumeric {
		out.Numeric = make([]float64, len(rows))
		for i, r := range rows {
			out.Numeric[i] = c.Numeric[r]
		}
		return out
	}
	out.Text = make([]string, len(rows))
	for i, r := range rows {
		out.Text[i] = c.Text[r]
	}
	return out
}
