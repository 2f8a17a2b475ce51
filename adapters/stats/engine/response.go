package engine

import (
	"fmt"
	"sort"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
)

// encodeResponse returns the response as floats. Numeric responses pass
// through. A textual response with exactly two classes becomes 0/1, the
// lexicographically larger class mapping to 1; anything else is rejected.
func encodeResponse(col *dataset.Column) ([]float64, error) {
	if col.IsNumeric() {
		out := make([]float64, col.Len())
		copy(out, col.Numeric)
		return out, nil
	}

	classes := col.Distinct()
	if len(classes) != 2 {
		return nil, fmt.Errorf("%w: %s has %d text classes, need exactly 2", core.ErrNonNumericResponse, col.Name, len(classes))
	}
	sort.Strings(classes)

	out := make([]float64, col.Len())
	for i := range out {
		if col.Text[i] == classes[1] {
			out[i] = 1
		}
	}
	return out, nil
}
