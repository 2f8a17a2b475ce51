package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"gofeat/domain/core"
)

// Frame is the canonical in-memory table every analysis runs over: ordered,
// named columns of equal length. A Frame is never mutated once it has been
// handed to the engine; derived tables are built with DropMissing/Select.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewFrame creates an empty frame
func NewFrame() *Frame {
	return &Frame{index: make(map[string]int)}
}

// AddNumeric appends a numeric column. The values are copied.
func (f *Frame) AddNumeric(name string, values []float64) error {
	data := make([]float64, len(values))
	copy(data, values)
	return f.add(&Column{Name: name, Type: ColumnNumeric, Numeric: data})
}

// AddText appends a textual column. The values are copied.
func (f *Frame) AddText(name string, values []string) error {
	data := make([]string, len(values))
	for i, v := range values {
		data[i] = strings.TrimSpace(v)
	}
	return f.add(&Column{Name: name, Type: ColumnText, Text: data})
}

func (f *Frame) add(col *Column) error {
	if strings.TrimSpace(col.Name) == "" {
		return core.NewValidationError("column", "name cannot be empty")
	}
	if _, exists := f.index[col.Name]; exists {
		return core.NewValidationError(col.Name, "duplicate column name")
	}
	if len(f.columns) > 0 && col.Len() != f.rows {
		return core.NewLengthMismatchError(col.Name, col.Len(), f.rows)
	}
	if len(f.columns) == 0 {
		f.rows = col.Len()
	}
	f.index[col.Name] = len(f.columns)
	f.columns = append(f.columns, col)
	return nil
}

// Column returns the column with the given name
func (f *Frame) Column(name string) (*Column, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[idx], true
}

// Has reports whether the frame has a column with the given name
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnNames returns column names in insertion order
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// RowCount returns the number of rows
func (f *Frame) RowCount() int {
	return f.rows
}

// ColumnCount returns the number of columns
func (f *Frame) ColumnCount() int {
	return len(f.columns)
}

// Validate ensures the frame is internally consistent
func (f *Frame) Validate() error {
	if len(f.columns) == 0 || f.rows == 0 {
		return core.ErrInsufficientData
	}
	for _, c := range f.columns {
		if c.Len() != f.rows {
			return core.NewLengthMismatchError(c.Name, c.Len(), f.rows)
		}
	}
	return nil
}

// DropMissing returns a copy of the frame without the rows where column name is missing
func (f *Frame) DropMissing(name string) (*Frame, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, core.NewInvalidColumnError(name)
	}
	rows := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if !col.IsMissing(i) {
			rows = append(rows, i)
		}
	}
	return f.Select(rows), nil
}

// Select returns a copy of the frame holding only the given rows, in order
func (f *Frame) Select(rows []int) *Frame {
	out := NewFrame()
	out.rows = len(rows)
	for _, c := range f.columns {
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.subset(rows))
	}
	return out
}

// Fingerprint hashes column names, types and values so a report can be tied
// back to the exact data it was computed from
func (f *Frame) Fingerprint() core.Hash {
	var b strings.Builder
	buf := make([]byte, 8)
	fmt.Fprintf(&b, "rows=%d;", f.rows)
	for _, c := range f.columns {
		fmt.Fprintf(&b, "%s:%s;", c.Name, c.Type)
		if c.IsNumeric() {
			for _, v := range c.Numeric {
				binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
				b.Write(buf)
			}
			continue
		}
		for _, v := range c.Text {
			b.WriteString(v)
			b.WriteByte(0)
		}
	}
	return core.NewHash([]byte(b.String()))
}
