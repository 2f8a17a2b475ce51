package postgres

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gofeat/domain/dataset"
	"gofeat/ports"

	"github.com/jmoiron/sqlx"
)

// FrameReader loads a dataset from the result set of a SQL query. Columns
// with a numeric database type become numeric columns, everything else is
// loaded as text. NULL is a missing value.
type FrameReader struct {
	db    *sqlx.DB
	query string
	args  []interface{}
}

// NewFrameReader creates a reader for the given query
func NewFrameReader(db *sqlx.DB, query string, args ...interface{}) ports.DatasetReader {
	return &FrameReader{db: db, query: query, args: args}
}

// ReadFrame runs the query and materializes every row
func (r *FrameReader) ReadFrame(ctx context.Context) (*dataset.Frame, error) {
	if strings.TrimSpace(r.query) == "" {
		return nil, fmt.Errorf("frame query cannot be empty")
	}

	rows, err := r.db.QueryxContext(ctx, r.query, r.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run frame query: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	names := make([]string, len(types))
	numeric := make([]bool, len(types))
	for i, ct := range types {
		names[i] = ct.Name()
		numeric[i] = isNumericType(ct.DatabaseTypeName())
	}

	cells := make([][]interface{}, len(names))
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			cells[i] = append(cells[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frame query: %w", err)
	}

	return buildFrame(names, numeric, cells)
}

// isNumericType reports whether a driver type name holds numbers
func isNumericType(name string) bool {
	switch strings.ToUpper(name) {
	case "INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "BIGINT",
		"FLOAT4", "FLOAT8", "REAL", "DOUBLE PRECISION", "NUMERIC", "DECIMAL":
		return true
	default:
		return false
	}
}

func buildFrame(names []string, numeric []bool, cells [][]interface{}) (*dataset.Frame, error) {
	frame := dataset.NewFrame()
	for i, name := range names {
		var err error
		if numeric[i] {
			values := make([]float64, len(cells[i]))
			for row, v := range cells[i] {
				if values[row], err = cellFloat(v); err != nil {
					return nil, fmt.Errorf("column %s row %d: %w", name, row, err)
				}
			}
			err = frame.AddNumeric(name, values)
		} else {
			values := make([]string, len(cells[i]))
			for row, v := range cells[i] {
				values[row] = cellText(v)
			}
			err = frame.AddText(name, values)
		}
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// cellFloat converts a scanned value of a numeric column; NULL becomes NaN
func cellFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unexpected numeric value of type %T", v)
	}
}

// cellText renders a scanned value as text; NULL becomes the empty string
func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
